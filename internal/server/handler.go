package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shazow/wifichan/internal/monitor"
	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/rating"
)

type handler struct {
	source Source
}

type AccessPoint struct {
	SSID      string `json:"ssid"`
	BSSID     string `json:"bssid"`
	Frequency uint   `json:"frequency"`
	Channel   int    `json:"channel,omitempty"`
	Band      string `json:"band,omitempty"`
	Width     uint   `json:"width"`
	Level     int    `json:"level"`
	Strength  string `json:"strength"`
	Security  string `json:"security"`
	Active    bool   `json:"active,omitempty"`
}

type Group struct {
	Name         string        `json:"name"`
	AccessPoints []AccessPoint `json:"access_points"`
}

type AccessPointsResponse struct {
	At              time.Time     `json:"at"`
	WirelessEnabled bool          `json:"wireless_enabled"`
	AccessPoints    []AccessPoint `json:"access_points,omitempty"`
	Groups          []Group       `json:"groups,omitempty"`
}

type ChannelRating struct {
	Channel   int    `json:"channel"`
	Frequency uint   `json:"frequency"`
	Count     int    `json:"count"`
	Strength  int    `json:"strength"`
	Rating    string `json:"rating"`
}

type ChannelCount struct {
	Channel   int  `json:"channel"`
	Frequency uint `json:"frequency"`
	Count     int  `json:"count"`
}

type ChannelsResponse struct {
	At       time.Time       `json:"at"`
	Band     string          `json:"band"`
	Channels []ChannelRating `json:"channels"`
	Best     []ChannelCount  `json:"best"`
}

type BestChannelsResponse struct {
	At       time.Time      `json:"at"`
	Band     string         `json:"band"`
	Channels []ChannelCount `json:"channels"`
}

func NewAccessPoint(ap wifi.AccessPoint) AccessPoint {
	r := AccessPoint{
		SSID:      ap.SSID,
		BSSID:     ap.BSSID,
		Frequency: ap.Frequency,
		Width:     uint(ap.ChannelWidth()),
		Level:     ap.Signal(),
		Strength:  ap.SignalStrength().String(),
		Security:  ap.Security.String(),
		Active:    ap.IsActive,
	}
	if c, ok := ap.Channel(); ok {
		r.Channel = c.Number
		r.Band = c.Band.String()
	}
	return r
}

func NewChannelRatings(ratings []rating.ChannelRating) []ChannelRating {
	r := make([]ChannelRating, 0, len(ratings))
	for _, cr := range ratings {
		r = append(r, ChannelRating{
			Channel:   cr.Channel.Number,
			Frequency: cr.Channel.Frequency,
			Count:     cr.Count,
			Strength:  int(cr.Strength),
			Rating:    cr.Strength.String(),
		})
	}
	return r
}

func NewChannelCounts(counts []rating.ChannelCount) []ChannelCount {
	r := make([]ChannelCount, 0, len(counts))
	for _, cc := range counts {
		r = append(r, ChannelCount{
			Channel:   cc.Channel.Number,
			Frequency: cc.Channel.Frequency,
			Count:     cc.Count,
		})
	}
	return r
}

func (h *handler) snapshot(c *gin.Context) (monitor.Snapshot, bool) {
	snap, ok := h.source.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no scan completed yet",
		})
		return snap, false
	}
	return snap, true
}

func (h *handler) AccessPoints(c *gin.Context) {
	sortBy, err := wifi.ParseSortBy(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groupBy, err := wifi.ParseGroupBy(c.Query("group"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	resp := AccessPointsResponse{
		At:              snap.At,
		WirelessEnabled: snap.WirelessEnabled,
	}
	for _, g := range wifi.GroupAccessPoints(snap.AccessPoints, groupBy, sortBy) {
		aps := make([]AccessPoint, 0, len(g.AccessPoints))
		for _, ap := range g.AccessPoints {
			aps = append(aps, NewAccessPoint(ap))
		}
		if groupBy == wifi.GroupNone {
			resp.AccessPoints = aps
			continue
		}
		resp.Groups = append(resp.Groups, Group{Name: g.Name, AccessPoints: aps})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) Channels(c *gin.Context) {
	snap, br, ok := h.band(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ChannelsResponse{
		At:       snap.At,
		Band:     br.Band.String(),
		Channels: NewChannelRatings(br.Ratings),
		Best:     NewChannelCounts(br.Best),
	})
}

func (h *handler) BestChannels(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit: " + s})
			return
		}
		limit = n
	}

	snap, br, ok := h.band(c)
	if !ok {
		return
	}
	best := br.Best
	if limit > 0 && len(best) > limit {
		best = best[:limit]
	}
	c.JSON(http.StatusOK, BestChannelsResponse{
		At:       snap.At,
		Band:     br.Band.String(),
		Channels: NewChannelCounts(best),
	})
}

// band resolves the band query parameter, defaulting to 2.4GHz, against the
// current snapshot.
func (h *handler) band(c *gin.Context) (monitor.Snapshot, monitor.BandRating, bool) {
	band := wifi.Band2GHz
	if s := c.Query("band"); s != "" {
		var err error
		if band, err = wifi.ParseBand(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return monitor.Snapshot{}, monitor.BandRating{}, false
		}
	}

	snap, ok := h.snapshot(c)
	if !ok {
		return snap, monitor.BandRating{}, false
	}
	if !snap.WirelessEnabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": wifi.ErrWirelessDisabled.Error()})
		return snap, monitor.BandRating{}, false
	}
	br, ok := snap.Band(band)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "band not scanned: " + band.String()})
		return snap, br, false
	}
	return snap, br, true
}
