/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
)

var (
	// ErrNotFound is returned when no account matches the requested id.
	ErrNotFound = errors.New("accounts: not found")
	// ErrInvalidRole is returned for role values outside the known set.
	ErrInvalidRole = errors.New("accounts: invalid role")
)

// Patch carries partial account updates; nil fields are left untouched.
type Patch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.RoleName
	Status   *models.AccountStatus
	IP       *string
	Location *string
	Device   *string
}

// Service owns the admin-panel user roster.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time

	// bcryptCost is lowered in tests; production uses the default.
	bcryptCost int
}

func NewService(database *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:         database,
		bus:        bus,
		logger:     logger.With().Str("component", "accounts").Logger(),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Add creates a roster entry. The id comes from the current time, joined
// date and last seen are stamped now, and view counters start at zero.
// Passwords are stored hashed.
func (s *Service) Add(ctx context.Context, user models.UserAccount) (*models.UserAccount, error) {
	if !models.IsValidRole(user.Role) {
		return nil, ErrInvalidRole
	}

	now := s.now()
	user.ID = models.TimeID(now)
	user.JoinedDate = now
	user.LastSeen = now
	user.ViewsToday = 0
	user.TotalViews = 0
	if user.Status == "" {
		user.Status = models.AccountActive
	}
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account created")
	s.bus.Publish(events.EventUserCreated, events.Payload{"id": user.ID, "name": user.Name, "role": user.Role})
	return &user, nil
}

// Update merges non-nil patch fields into the stored account. A new
// password is re-hashed; view counters and join date cannot be patched.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*models.UserAccount, error) {
	var user models.UserAccount
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if patch.Role != nil {
		if !models.IsValidRole(*patch.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *patch.Role
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil && *patch.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.IP != nil {
		user.IP = *patch.IP
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.Device != nil {
		user.Device = *patch.Device
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.bus.Publish(events.EventUserUpdated, events.Payload{"id": user.ID})
	return &user, nil
}

// Delete removes an account by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.UserAccount{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.bus.Publish(events.EventUserDeleted, events.Payload{"id": id})
	return nil
}

// GetByID returns one account.
func (s *Service) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	var user models.UserAccount
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &user, nil
}

// List returns the full roster, newest accounts first.
func (s *Service) List(ctx context.Context) ([]models.UserAccount, error) {
	var users []models.UserAccount
	if err := s.db.WithContext(ctx).Order("joined_date DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return users, nil
}

// IncrementUserViews bumps an account's view counters and stamps last seen.
// ViewsToday resets lazily: when the previous last-seen date is an earlier
// calendar day, the daily counter starts over at 1.
func (s *Service) IncrementUserViews(ctx context.Context, id string) (*models.UserAccount, error) {
	var user models.UserAccount
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	now := s.now()
	if models.DateKey(user.LastSeen) != models.DateKey(now) {
		user.ViewsToday = 1
	} else {
		user.ViewsToday++
	}
	user.TotalViews++
	user.LastSeen = now

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update account views: %w", err)
	}
	return &user, nil
}

// Stats summarizes the roster for the admin dashboard.
type Stats struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Inactive    int64 `json:"inactive"`
	ActiveToday int64 `json:"activeToday"`
}

// GetTotalUsers returns the roster size.
func (s *Service) GetTotalUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.UserAccount{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return total, nil
}

// GetStats returns roster totals and status counts.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error
	if stats.Total, err = s.GetTotalUsers(ctx); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.UserAccount{}).
		Where("status = ?", models.AccountActive).
		Count(&stats.Active).Error
	if err != nil {
		return nil, fmt.Errorf("count active accounts: %w", err)
	}
	stats.Inactive = stats.Total - stats.Active

	activeToday, err := s.GetActiveUsersToday(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveToday = int64(len(activeToday))
	return &stats, nil
}

// UpdateUserActivity stamps last seen without touching the view counters.
func (s *Service) UpdateUserActivity(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&models.UserAccount{}).
		Where("id = ?", id).
		Update("last_seen", s.now())
	if result.Error != nil {
		return fmt.Errorf("update account activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetActiveUsersToday returns accounts last seen on the current calendar
// day.
func (s *Service) GetActiveUsersToday(ctx context.Context) ([]models.UserAccount, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	today := models.DateKey(s.now())
	active := users[:0]
	for _, user := range users {
		if models.DateKey(user.LastSeen) == today {
			active = append(active, user)
		}
	}
	return active, nil
}

// GetUsersByRole filters the roster by role.
func (s *Service) GetUsersByRole(ctx context.Context, role models.RoleName) ([]models.UserAccount, error) {
	var users []models.UserAccount
	err := s.db.WithContext(ctx).
		Where("role = ?", role).
		Order("joined_date DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("accounts by role: %w", err)
	}
	return users, nil
}

// GetRecentUsers returns accounts seen within the trailing window,
// most recently seen first. Join date plays no part: a years-old account
// touched a minute ago is recent, a fresh signup that went idle is not.
func (s *Service) GetRecentUsers(ctx context.Context, window time.Duration) ([]models.UserAccount, error) {
	cutoff := s.now().Add(-window)
	var users []models.UserAccount
	err := s.db.WithContext(ctx).
		Where("last_seen >= ?", cutoff).
		Order("last_seen DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("recent accounts: %w", err)
	}
	return users, nil
}

// Import replaces the roster wholesale. Passwords in the payload are stored
// as given; a backup carries hashes already.
func (s *Service) Import(ctx context.Context, users []models.UserAccount) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.UserAccount{}).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}
		return tx.Create(&users).Error
	})
	if err != nil {
		return fmt.Errorf("import accounts: %w", err)
	}
	s.logger.Info().Int("count", len(users)).Msg("roster imported")
	return nil
}
