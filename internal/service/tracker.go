package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/nutrition"
	"github.com/fittrack/backend/internal/progress"
	"github.com/fittrack/backend/pkg/model"
)

// ProfileStore persists the profile document
type ProfileStore interface {
	Load(ctx context.Context) (*model.UserProfile, error)
	Save(ctx context.Context, profile *model.UserProfile) error
}

// TrackerService owns the current profile document and applies every mutation
// as a pure function of the previous snapshot: clone, transform, swap. The
// new document is persisted after each mutation; a failed save is logged and
// the in-memory state stands.
type TrackerService struct {
	mu      sync.Mutex
	current *model.UserProfile
	store   ProfileStore
	logger  *zap.Logger
}

// NewTrackerService loads the stored document (or the default profile when
// none exists) and returns the state container.
func NewTrackerService(ctx context.Context, store ProfileStore, logger *zap.Logger) (*TrackerService, error) {
	profile, err := store.Load(ctx)
	if err != nil {
		// Per the error policy a failed load degrades to the default
		// profile; only an unconstructable store is fatal upstream.
		logger.Error("failed to load profile document, starting with defaults", zap.Error(err))
		profile = model.DefaultProfile()
	}

	return &TrackerService{
		current: profile,
		store:   store,
		logger:  logger,
	}, nil
}

// Profile returns a deep copy of the current document snapshot
func (s *TrackerService) Profile() *model.UserProfile {
	s.mu.Lock()
	snapshot := s.current
	s.mu.Unlock()
	return snapshot.Clone()
}

// mutate runs fn against a clone of the current snapshot, swaps the result in,
// and persists it. fn returning an error leaves the prior state untouched.
func (s *TrackerService) mutate(ctx context.Context, op string, fn func(p *model.UserProfile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.current = next

	// Fire-and-forget persistence: a failed save never rolls back the
	// in-memory mutation.
	if err := s.store.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist profile document",
			zap.Error(err),
			zap.String("operation", op),
		)
	}

	return nil
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	Name             *string
	HeightCm         *float64
	WeightGoalKg     *float64
	Age              *int
	CoachInstruction *string
}

// UpdateProfile applies the provided profile fields; nil fields are untouched
func (s *TrackerService) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	return s.mutate(ctx, "update_profile", func(p *model.UserProfile) error {
		if update.Name != nil {
			p.Name = strings.TrimSpace(*update.Name)
		}
		if update.HeightCm != nil {
			if *update.HeightCm <= 0 {
				return fmt.Errorf("height must be positive")
			}
			p.HeightCm = *update.HeightCm
		}
		if update.WeightGoalKg != nil {
			goal := *update.WeightGoalKg
			p.WeightGoalKg = &goal
		}
		if update.Age != nil {
			if *update.Age <= 0 {
				return fmt.Errorf("age must be positive")
			}
			age := *update.Age
			p.Age = &age
		}
		if update.CoachInstruction != nil {
			p.CoachInstruction = *update.CoachInstruction
		}
		return nil
	})
}

// UpdateMetrics upserts the weight and waist measurements for one date. Both
// series are written from the same prior snapshot, so the caller never
// observes a partial update.
func (s *TrackerService) UpdateMetrics(ctx context.Context, date string, weightKg, waistCm float64) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	return s.mutate(ctx, "update_metrics", func(p *model.UserProfile) error {
		p.WeightHistory = progress.Upsert(p.WeightHistory, date, weightKg)
		p.WaistHistory = progress.Upsert(p.WaistHistory, date, waistCm)
		return nil
	})
}

// LogMeal appends a committed meal to today's day record, creating the record
// lazily. The entry's day key is fixed at logging time. Returns the stored
// entry with its assigned id.
func (s *TrackerService) LogMeal(ctx context.Context, mealType model.MealType, analysis model.MealAnalysis) (*model.MealLog, error) {
	if !mealType.Valid() {
		return nil, fmt.Errorf("invalid meal type %q", mealType)
	}

	entry := model.MealLog{
		ID:       uuid.New().String(),
		Type:     mealType,
		Analysis: analysis.Clone(),
	}
	dateKey := model.DayKey(time.Now())

	err := s.mutate(ctx, "log_meal", func(p *model.UserProfile) error {
		day := p.DailyLog[dateKey]
		day.Meals = append(day.Meals, entry)
		p.DailyLog[dateKey] = day
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meal logged",
		zap.String("meal_id", entry.ID),
		zap.String("date", dateKey),
		zap.String("type", string(mealType)),
		zap.Float64("calories", entry.Analysis.Totals.Calories.Float64()),
	)

	return &entry, nil
}

// LogWorkout appends a completed workout to today's day record
func (s *TrackerService) LogWorkout(ctx context.Context, name string, durationMinutes, caloriesBurned float64) (*model.WorkoutLog, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("workout name is required")
	}
	if durationMinutes < 0 || caloriesBurned < 0 {
		return nil, fmt.Errorf("duration and calories burned must not be negative")
	}

	entry := model.WorkoutLog{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(name),
		DurationMinutes: durationMinutes,
		CaloriesBurned:  caloriesBurned,
	}
	dateKey := model.DayKey(time.Now())

	err := s.mutate(ctx, "log_workout", func(p *model.UserProfile) error {
		day := p.DailyLog[dateKey]
		day.Workouts = append(day.Workouts, entry)
		p.DailyLog[dateKey] = day
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workout logged",
		zap.String("workout_id", entry.ID),
		zap.String("date", dateKey),
		zap.Float64("calories_burned", caloriesBurned),
	)

	return &entry, nil
}

// DailyBalance derives the calorie balance for a date key. A date with no
// record yields the zero balance.
func (s *TrackerService) DailyBalance(dateKey string) model.DailyBalance {
	profile := s.Profile()
	return nutrition.Balance(profile.DailyLog[dateKey])
}

// DayRecord returns the record for a date key, ok=false when nothing was
// logged that day.
func (s *TrackerService) DayRecord(dateKey string) (model.DayRecord, bool) {
	profile := s.Profile()
	day, ok := profile.DailyLog[dateKey]
	return day, ok
}

// AddProduct appends a product to the user's library. The id is assigned here
// when the caller did not supply one.
func (s *TrackerService) AddProduct(ctx context.Context, product model.CustomProduct) (*model.CustomProduct, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	err := s.mutate(ctx, "add_product", func(p *model.UserProfile) error {
		p.CustomProducts = append(p.CustomProducts, product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product added",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
	)

	return &product, nil
}

// RemoveProduct deletes a product by id. Removing an absent id is a no-op.
// Logged meals keep their copied nutrition values.
func (s *TrackerService) RemoveProduct(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove_product", func(p *model.UserProfile) error {
		kept := p.CustomProducts[:0]
		for _, product := range p.CustomProducts {
			if product.ID != id {
				kept = append(kept, product)
			}
		}
		p.CustomProducts = kept
		return nil
	})
}

// AddStockItem adds an ingredient name to the stock-on-hand set. The name is
// trimmed; blank or already-present names are a silent no-op. The set stays
// sorted.
func (s *TrackerService) AddStockItem(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	return s.mutate(ctx, "add_stock_item", func(p *model.UserProfile) error {
		for _, existing := range p.ProductsInStock {
			if existing == name {
				return nil
			}
		}
		p.ProductsInStock = append(p.ProductsInStock, name)
		sort.Strings(p.ProductsInStock)
		return nil
	})
}

// RemoveStockItem removes an ingredient by exact name. Idempotent.
func (s *TrackerService) RemoveStockItem(ctx context.Context, name string) error {
	return s.mutate(ctx, "remove_stock_item", func(p *model.UserProfile) error {
		kept := p.ProductsInStock[:0]
		for _, item := range p.ProductsInStock {
			if item != name {
				kept = append(kept, item)
			}
		}
		p.ProductsInStock = kept
		return nil
	})
}

// Reset replaces the document with the default empty profile
func (s *TrackerService) Reset(ctx context.Context) error {
	return s.mutate(ctx, "reset", func(p *model.UserProfile) error {
		*p = *model.DefaultProfile()
		return nil
	})
}
