package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bombparty/internal/db"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const bombPartyExtension = "bombparty"

type bombPartyOptions struct {
	BombTimer float64 `json:"bomb_timer"`
}

type settingsRequest struct {
	BombTimer float64 `json:"bomb_timer" binding:"gte=0.1,lte=120"`
}

// SettingsService holds the per-extension option tables. Values are read
// through to the database when one is configured; otherwise they live in
// memory for the life of the process.
type SettingsService struct {
	db       *gorm.DB
	fallback time.Duration
	mu       sync.Mutex
	memory   *bombPartyOptions
}

func newSettingsService(conn *gorm.DB, fallback time.Duration) *SettingsService {
	return &SettingsService{db: conn, fallback: fallback}
}

// BombTimer returns the configured turn window. Missing or unusable stored
// values fall back to the process default.
func (s *SettingsService) BombTimer() (time.Duration, error) {
	options, err := s.load()
	if err != nil {
		return s.fallback, err
	}
	if options == nil {
		return s.fallback, nil
	}
	if timer := bombTimerDuration(options.BombTimer); timer > 0 {
		return timer, nil
	}
	return s.fallback, nil
}

func (s *SettingsService) SetBombTimer(seconds float64) error {
	if seconds < minBombTimer || seconds > maxBombTimer {
		return fmt.Errorf("bomb_timer must be between %v and %v seconds, got %v", minBombTimer, maxBombTimer, seconds)
	}
	options := bombPartyOptions{BombTimer: seconds}
	if s.db == nil {
		s.mu.Lock()
		s.memory = &options
		s.mu.Unlock()
		return nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return db.SaveSetting(s.db, bombPartyExtension, datatypes.JSON(data))
}

func bombTimerDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func (s *SettingsService) load() (*bombPartyOptions, error) {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.memory == nil {
			return nil, nil
		}
		copied := *s.memory
		return &copied, nil
	}
	record, found, err := db.GetSetting(s.db, bombPartyExtension)
	if err != nil || !found {
		return nil, err
	}
	var options bombPartyOptions
	if err := json.Unmarshal(record.Options, &options); err != nil {
		return nil, fmt.Errorf("decode %s settings: %w", bombPartyExtension, err)
	}
	return &options, nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	timer, err := s.settings.BombTimer()
	if err != nil {
		s.logger.Warn("load settings failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, bombPartyOptions{BombTimer: timer.Seconds()})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !bindJSON(w, r, &req, bindMessages{
		"BombTimer": {
			"gte": fmt.Sprintf("bomb_timer must be at least %v seconds", minBombTimer),
			"lte": fmt.Sprintf("bomb_timer must be %d seconds or fewer", maxBombTimer),
		},
	}, "invalid settings") {
		return
	}
	if err := s.settings.SetBombTimer(req.BombTimer); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	s.logger.Info("settings updated", zap.Float64("bomb_timer", req.BombTimer))
	writeJSON(w, http.StatusOK, bombPartyOptions{BombTimer: req.BombTimer})
}
