// Package relation implements the favorite, shopping cart and follow
// relationships as two-state toggles on an (actor, target) pair.
package relation

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	opActivate   = "activate"
	opDeactivate = "deactivate"

	uniqueViolation = "23505"
)

// Every relationship is owned by a user.
var actorTable = entities.User{}.TableName()

// Kind describes one relationship table.
type Kind struct {
	Name         string
	Table        string
	ActorColumn  string
	TargetColumn string
	// TargetTable holds the rows the target id must point at.
	TargetTable string
	NewRow      func(actor, target uuid.UUID) any

	ErrExists        error
	ErrMissing       error
	ErrTargetMissing error
	// ErrSelf, when set, forbids actor == target.
	ErrSelf error
}

var (
	Favorite = Kind{
		Name:         "favorite",
		Table:        entities.Favorite{}.TableName(),
		ActorColumn:  "user_id",
		TargetColumn: "recipe_id",
		TargetTable:  entities.Recipe{}.TableName(),
		NewRow: func(actor, target uuid.UUID) any {
			return &entities.Favorite{UserID: actor, RecipeID: target}
		},
		ErrExists:        domain.ErrAlreadyFavorited,
		ErrMissing:       domain.ErrAlreadyUnfavorited,
		ErrTargetMissing: domain.ErrRecipeNotFound,
	}

	ShoppingCart = Kind{
		Name:         "shopping_cart",
		Table:        entities.ShoppingCartItem{}.TableName(),
		ActorColumn:  "user_id",
		TargetColumn: "recipe_id",
		TargetTable:  entities.Recipe{}.TableName(),
		NewRow: func(actor, target uuid.UUID) any {
			return &entities.ShoppingCartItem{UserID: actor, RecipeID: target}
		},
		ErrExists:        domain.ErrAlreadyInShoppingCart,
		ErrMissing:       domain.ErrAlreadyOutOfShoppingCart,
		ErrTargetMissing: domain.ErrRecipeNotFound,
	}

	Follow = Kind{
		Name:         "follow",
		Table:        entities.Follow{}.TableName(),
		ActorColumn:  "user_id",
		TargetColumn: "author_id",
		TargetTable:  entities.User{}.TableName(),
		NewRow: func(actor, target uuid.UUID) any {
			return &entities.Follow{UserID: actor, AuthorID: target}
		},
		ErrExists:        domain.ErrAlreadySubscribed,
		ErrMissing:       domain.ErrAlreadyUnsubscribed,
		ErrTargetMissing: domain.ErrUserNotFound,
		ErrSelf:          domain.ErrSelfFollow,
	}
)

type (
	Mutator interface {
		Activate(ctx context.Context, kind Kind, actor, target uuid.UUID) error
		Deactivate(ctx context.Context, kind Kind, actor, target uuid.UUID) error
		Exists(ctx context.Context, kind Kind, actor, target uuid.UUID) (bool, error)
	}

	mutator struct {
		db *gorm.DB
	}
)

func NewMutator(db *gorm.DB) Mutator {
	return &mutator{db: db}
}

// Activate inserts the (actor, target) row. An existing row, including one
// that wins a concurrent insert, is reported as kind.ErrExists.
func (m *mutator) Activate(ctx context.Context, kind Kind, actor, target uuid.UUID) (err error) {
	defer func() { m.record(kind, opActivate, actor, target, err) }()

	if kind.ErrSelf != nil && actor == target {
		return kind.ErrSelf
	}
	if err := m.requireRow(ctx, actorTable, actor, domain.ErrActorNotFound); err != nil {
		return err
	}
	if err := m.requireTarget(ctx, kind, target); err != nil {
		return err
	}

	exists, err := m.Exists(ctx, kind, actor, target)
	if err != nil {
		return err
	}
	if exists {
		return kind.ErrExists
	}

	return m.insert(ctx, kind, actor, target)
}

func (m *mutator) Deactivate(ctx context.Context, kind Kind, actor, target uuid.UUID) (err error) {
	defer func() { m.record(kind, opDeactivate, actor, target, err) }()

	if err := m.requireTarget(ctx, kind, target); err != nil {
		return err
	}

	res := m.db.WithContext(ctx).
		Table(kind.Table).
		Where(kind.ActorColumn+" = ? AND "+kind.TargetColumn+" = ?", actor, target).
		Delete(kind.NewRow(actor, target))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return kind.ErrMissing
	}
	return nil
}

func (m *mutator) Exists(ctx context.Context, kind Kind, actor, target uuid.UUID) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Table(kind.Table).
		Where(kind.ActorColumn+" = ? AND "+kind.TargetColumn+" = ?", actor, target).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *mutator) insert(ctx context.Context, kind Kind, actor, target uuid.UUID) error {
	err := m.db.WithContext(ctx).Create(kind.NewRow(actor, target)).Error
	if isUniqueViolation(err) {
		return kind.ErrExists
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		// the violation does not name its column; either side may be gone
		if err := m.requireRow(ctx, actorTable, actor, domain.ErrActorNotFound); err != nil {
			return err
		}
		return kind.ErrTargetMissing
	}
	return err
}

func (m *mutator) requireTarget(ctx context.Context, kind Kind, target uuid.UUID) error {
	return m.requireRow(ctx, kind.TargetTable, target, kind.ErrTargetMissing)
}

func (m *mutator) requireRow(ctx context.Context, table string, id uuid.UUID, errMissing error) error {
	var count int64
	if err := m.db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errMissing
	}
	return nil
}

func (m *mutator) record(kind Kind, op string, actor, target uuid.UUID, err error) {
	result := "ok"
	if err != nil {
		result = domain.KindOf(err).String()
		if domain.KindOf(err) == domain.KindInternal {
			result = "error"
		}
	}
	metrics.RecordRelationMutation(kind.Name, op, result)

	zap.L().Debug("relation mutation",
		zap.String("kind", kind.Name),
		zap.String("op", op),
		zap.Stringer("actor", actor),
		zap.Stringer("target", target),
		zap.String("result", result),
	)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
