// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	// Parents before children
	models := []interface{}{
		&product.Product{},
		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the composite indexes used by the catalog and the dashboard
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_active_popularity ON products(active, popularity_score DESC, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured_active ON products(is_featured, active)",
		"CREATE INDEX IF NOT EXISTS idx_products_favorite_active ON products(is_favorite, active)",

		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).WithField("sql", indexSQL).Warn("Failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("Database indexes ensured")

	if failed > 0 {
		return fmt.Errorf("%d of %d indexes could not be created", failed, len(indexes))
	}
	return nil
}

// SeedInitialData upserts the bakery catalog by slug. Existing rows keep
// their id and creation time; every other column is reset to the seed values.
func (m *Migration) SeedInitialData() error {
	products := seedProducts()

	err := m.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "price", "images", "category", "ingredients",
			"calories", "prep_time_minutes", "yield_info", "is_featured", "is_favorite",
			"popularity_score", "active", "updated_at",
		}),
	}).Create(&products).Error
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	m.logger.WithField("products", len(products)).Info("Catalog seeded")
	return nil
}

// GetTableInfo logs the row count of every table
func (m *Migration) GetTableInfo() error {
	var tables []string
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		m.logger.WithFields(logrus.Fields{
			"table":   table,
			"records": count,
		}).Debug("Table info")
	}

	return nil
}

func intPtr(v int) *int {
	return &v
}

func seedProducts() []product.Product {
	return []product.Product{
		{
			Name:            "Bolo Red Velvet da Casa",
			Slug:            "bolo-red-velvet-da-casa",
			Description:     "Massa aveludada com toque de cacau, camadas generosas de cream cheese e finalização com farelos vermelhos.",
			Price:           8900,
			Images:          []string{"/images/products/bolo-red-velvet.svg"},
			Category:        "bolos",
			Ingredients:     "Farinha, açúcar, ovos, leite, cacau, manteiga, cream cheese.",
			Calories:        intPtr(420),
			PrepTimeMinutes: intPtr(90),
			YieldInfo:       "12 fatias",
			IsFeatured:      true,
			IsFavorite:      true,
			PopularityScore: 92,
			Active:          true,
		},
		{
			Name:            "Bolo de Cenoura com Brigadeiro",
			Slug:            "bolo-de-cenoura-com-brigadeiro",
			Description:     "Massa fofinha de cenoura com cobertura cremosa de brigadeiro e granulado belga.",
			Price:           7600,
			Images:          []string{"/images/products/bolo-cenoura.svg"},
			Category:        "bolos",
			Ingredients:     "Cenoura, ovos, açúcar, óleo, farinha, chocolate, leite condensado.",
			Calories:        intPtr(390),
			PrepTimeMinutes: intPtr(75),
			YieldInfo:       "10 fatias",
			IsFeatured:      true,
			PopularityScore: 84,
			Active:          true,
		},
		{
			Name:            "Torta de Limão com Merengue",
			Slug:            "torta-de-limao-com-merengue",
			Description:     "Base crocante de biscoito, creme cítrico aveludado e merengue maçaricado na hora.",
			Price:           6800,
			Images:          []string{"/images/products/torta-limao.svg"},
			Category:        "tortas",
			Ingredients:     "Limão siciliano, creme de leite, leite condensado, biscoito amanteigado.",
			Calories:        intPtr(360),
			PrepTimeMinutes: intPtr(60),
			YieldInfo:       "8 fatias",
			IsFeatured:      true,
			IsFavorite:      true,
			PopularityScore: 88,
			Active:          true,
		},
		{
			Name:            "Cheesecake de Frutas Vermelhas",
			Slug:            "cheesecake-de-frutas-vermelhas",
			Description:     "Cheesecake cremoso com calda artesanal de frutas vermelhas e base amanteigada.",
			Price:           8200,
			Images:          []string{"/images/products/cheesecake-frutas.svg"},
			Category:        "tortas",
			Ingredients:     "Cream cheese, açúcar, ovos, biscoito, frutas vermelhas.",
			Calories:        intPtr(410),
			PrepTimeMinutes: intPtr(80),
			YieldInfo:       "10 fatias",
			IsFavorite:      true,
			PopularityScore: 79,
			Active:          true,
		},
		{
			Name:            "Brownie Belga Intenso",
			Slug:            "brownie-belga-intenso",
			Description:     "Brownie úmido com chocolate belga 70%, finalizado com nozes tostadas.",
			Price:           3800,
			Images:          []string{"/images/products/brownie-belga.svg"},
			Category:        "doces",
			Ingredients:     "Chocolate belga, manteiga, ovos, açúcar, nozes.",
			Calories:        intPtr(320),
			PrepTimeMinutes: intPtr(45),
			YieldInfo:       "6 unidades",
			IsFavorite:      true,
			PopularityScore: 90,
			Active:          true,
		},
		{
			Name:            "Brigadeiro Gourmet 4 Leites",
			Slug:            "brigadeiro-gourmet-4-leites",
			Description:     "Docinho cremoso de chocolate ao leite com toque de flor de sal.",
			Price:           350,
			Images:          []string{"/images/products/brigadeiro-gourmet.svg"},
			Category:        "doces",
			Ingredients:     "Leite condensado, creme de leite, chocolate ao leite, manteiga.",
			Calories:        intPtr(120),
			PrepTimeMinutes: intPtr(30),
			YieldInfo:       "1 unidade",
			IsFeatured:      true,
			IsFavorite:      true,
			PopularityScore: 98,
			Active:          true,
		},
		{
			Name:            "Macarons Sortidos Ju.pani",
			Slug:            "macarons-sortidos-ju-pani",
			Description:     "Caixa com 8 macarons em sabores sazonais: framboesa, pistache e baunilha.",
			Price:           5200,
			Images:          []string{"/images/products/macarons.svg"},
			Category:        "doces",
			Ingredients:     "Farinha de amêndoas, claras, açúcar, recheios naturais.",
			Calories:        intPtr(210),
			PrepTimeMinutes: intPtr(70),
			YieldInfo:       "8 unidades",
			PopularityScore: 70,
			Active:          true,
		},
		{
			Name:            "Kit Festa Mini",
			Slug:            "kit-festa-mini",
			Description:     "Mix de mini cupcakes, brownies e docinhos para celebrações íntimas.",
			Price:           12900,
			Images:          []string{"/images/products/kit-festa.svg"},
			Category:        "kits",
			Ingredients:     "Variedade de massas, chocolates e coberturas.",
			Calories:        intPtr(520),
			PrepTimeMinutes: intPtr(120),
			YieldInfo:       "20 unidades variadas",
			IsFeatured:      true,
			PopularityScore: 75,
			Active:          true,
		},
		{
			Name:            "Quiche de Alho-Poró e Queijos",
			Slug:            "quiche-de-alho-poro-e-queijos",
			Description:     "Massa amanteigada com recheio cremoso de alho-poró e mix de queijos.",
			Price:           6400,
			Images:          []string{"/images/products/quiche-alho-poro.svg"},
			Category:        "salgados",
			Ingredients:     "Farinha, manteiga, alho-poró, queijo, creme de leite.",
			Calories:        intPtr(330),
			PrepTimeMinutes: intPtr(55),
			YieldInfo:       "6 fatias",
			PopularityScore: 62,
			Active:          true,
		},
		{
			Name:            "Empadão de Frango Cremoso",
			Slug:            "empadao-de-frango-cremoso",
			Description:     "Empadão dourado com recheio de frango desfiado, requeijão e ervas.",
			Price:           7200,
			Images:          []string{"/images/products/empadao-frango.svg"},
			Category:        "salgados",
			Ingredients:     "Frango, requeijão, farinha, manteiga, temperos naturais.",
			Calories:        intPtr(370),
			PrepTimeMinutes: intPtr(65),
			YieldInfo:       "8 fatias",
			IsFavorite:      true,
			PopularityScore: 73,
			Active:          true,
		},
	}
}
