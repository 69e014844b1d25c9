// Package dashboard serves the staff control panel API: runtime settings
// CRUD, excluded channels, troll/activity logs, aggregate stats, and bot
// status. Auth is a shared password exchanged for a bearer token.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wwg-bot/internal/botlog"
	"wwg-bot/internal/settings"
)

// BotStatus is a point-in-time snapshot from the live connection.
type BotStatus struct {
	Online        bool    `json:"online"`
	GuildName     string  `json:"guild_name"`
	MemberCount   int     `json:"member_count"`
	OnlineMembers int     `json:"online_members"`
	LatencyMS     float64 `json:"latency_ms"`
}

// StatusProvider reports the live connection state. The discord bot
// implements it.
type StatusProvider interface {
	Status() BotStatus
}

// Server is the dashboard HTTP API.
type Server struct {
	store    *settings.Store
	logs     *botlog.Logger
	status   StatusProvider
	password string
	sessions *sessions
	log      zerolog.Logger
	started  time.Time

	httpSrv *http.Server
}

func New(store *settings.Store, logs *botlog.Logger, status StatusProvider, password string, log zerolog.Logger) *Server {
	return &Server{
		store:    store,
		logs:     logs,
		status:   status,
		password: password,
		sessions: newSessions(),
		log:      log.With().Str("component", "dashboard").Logger(),
		started:  time.Now(),
	}
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/login", s.handleLogin)
	r.POST("/api/logout", s.handleLogout)
	r.GET("/api/me", s.handleMe)

	auth := r.Group("/api", s.requireAuth)
	auth.GET("/settings", s.handleGetSettings)
	auth.PUT("/settings/bulk", s.handleBulkUpdate)
	auth.PUT("/settings/:key", s.handleUpdateSetting)
	auth.GET("/channels/excluded", s.handleGetExcluded)
	auth.PUT("/channels/excluded", s.handleSetExcluded)
	auth.POST("/channels/excluded/add", s.handleAddExcluded)
	auth.DELETE("/channels/excluded/:id", s.handleRemoveExcluded)
	auth.GET("/logs/trolls", s.handleTrollLogs)
	auth.GET("/logs/trolls/types", s.handleTrollTypes)
	auth.GET("/logs/activity", s.handleActivityLogs)
	auth.GET("/logs/activity/types", s.handleActivityTypes)
	auth.GET("/stats", s.handleStats)
	auth.GET("/bot/status", s.handleBotStatus)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.log.Info().Str("addr", addr).Msg("dashboard listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// --- Settings ---

type settingView struct {
	Key         string             `json:"key"`
	Value       any                `json:"value"`
	Default     any                `json:"default"`
	ValueType   settings.ValueType `json:"value_type"`
	Description string             `json:"description"`
}

func (s *Server) handleGetSettings(c *gin.Context) {
	grouped := make(map[string][]settingView)
	for category, items := range settings.Grouped() {
		views := make([]settingView, 0, len(items))
		for _, meta := range items {
			views = append(views, settingView{
				Key:         meta.Key,
				Value:       s.store.Value(meta.Key),
				Default:     meta.Default,
				ValueType:   meta.Type,
				Description: meta.Description,
			})
		}
		grouped[category] = views
	}
	c.JSON(http.StatusOK, grouped)
}

func (s *Server) handleUpdateSetting(c *gin.Context) {
	key := c.Param("key")
	if _, ok := settings.Lookup(key); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}
	var body struct {
		Value any `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing JSON body"})
		return
	}
	stored, err := s.store.Set(key, body.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.log.Info().Str("key", key).Interface("value", stored).Msg("setting updated")
	c.JSON(http.StatusOK, gin.H{"ok": true, "key": key, "value": stored})
}

func (s *Server) handleBulkUpdate(c *gin.Context) {
	var body struct {
		Updates []struct {
			Key   string `json:"key"`
			Value any    `json:"value"`
		} `json:"updates"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing JSON body"})
		return
	}
	updated := make([]gin.H, 0, len(body.Updates))
	for _, u := range body.Updates {
		if u.Key == "" || u.Value == nil {
			continue
		}
		stored, err := s.store.Set(u.Key, u.Value)
		if err != nil {
			continue
		}
		updated = append(updated, gin.H{"key": u.Key, "value": stored})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": updated})
}

// --- Excluded channels ---

func (s *Server) handleGetExcluded(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": s.store.StringSlice("channels.excluded")})
}

func (s *Server) handleSetExcluded(c *gin.Context) {
	var body struct {
		Channels []string `json:"channels"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing JSON body"})
		return
	}
	for _, id := range body.Channels {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "all channel IDs must be numeric"})
			return
		}
	}
	if _, err := s.store.Set("channels.excluded", body.Channels); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "channels": body.Channels})
}

func (s *Server) handleAddExcluded(c *gin.Context) {
	var body struct {
		ChannelID string `json:"channel_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ChannelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing channel_id"})
		return
	}
	if _, err := strconv.ParseUint(body.ChannelID, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_id must be numeric"})
		return
	}
	excluded := s.store.StringSlice("channels.excluded")
	for _, id := range excluded {
		if id == body.ChannelID {
			c.JSON(http.StatusOK, gin.H{"ok": true, "channels": excluded})
			return
		}
	}
	excluded = append(excluded, body.ChannelID)
	if _, err := s.store.Set("channels.excluded", excluded); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "channels": excluded})
}

func (s *Server) handleRemoveExcluded(c *gin.Context) {
	target := c.Param("id")
	excluded := s.store.StringSlice("channels.excluded")
	kept := make([]string, 0, len(excluded))
	for _, id := range excluded {
		if id != target {
			kept = append(kept, id)
		}
	}
	if _, err := s.store.Set("channels.excluded", kept); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "channels": kept})
}

// --- Logs and stats ---

func (s *Server) handleTrollLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, total, err := s.logs.TrollPage(page, limit, c.Query("type"), c.Query("user"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total, "page": page, "limit": limit})
}

func (s *Server) handleTrollTypes(c *gin.Context) {
	types, err := s.logs.TrollTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

func (s *Server) handleActivityLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, total, err := s.logs.ActivityPage(page, limit, c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total, "page": page, "limit": limit})
}

func (s *Server) handleActivityTypes(c *gin.Context) {
	types, err := s.logs.ActivityTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

func (s *Server) handleStats(c *gin.Context) {
	summary, err := s.logs.StatsSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleBotStatus(c *gin.Context) {
	st := s.status.Status()
	uptime := time.Since(s.started)
	c.JSON(http.StatusOK, gin.H{
		"online":         st.Online,
		"uptime":         formatUptime(uptime),
		"uptime_sec":     int(uptime.Seconds()),
		"guild_name":     st.GuildName,
		"member_count":   st.MemberCount,
		"online_members": st.OnlineMembers,
		"latency_ms":     st.LatencyMS,
	})
}

func formatUptime(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}
