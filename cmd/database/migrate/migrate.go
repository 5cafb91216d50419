package migration

import (
	"foodgram/entities"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every persisted entity. They are migrated in one call so gorm
// can order them by foreign key and attach has-many constraints to the child
// tables.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Ingredient{},
		&entities.Tag{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.ShoppingCartItem{},
		&entities.Follow{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		zap.L().Error("error migrating database", zap.Error(err))
		return err
	}

	zap.L().Info("database migration complete")
	return nil
}
