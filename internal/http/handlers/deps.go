package handlers

import (
	"github.com/jmoiron/sqlx"

	"twinkle/internal/config"
	"twinkle/internal/genai"
	"twinkle/internal/repos"
	"twinkle/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	ChatHandler    *ChatHandler
	AdminHandler   *AdminHandler
	ImportHandler  *ImportHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, ai *genai.Client) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	auditRepo := repos.NewAuditRepo(db)
	mediaRepo := repos.NewMediaRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, auditRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, auditRepo)
	assistantSvc := services.NewAssistantService(ai, prodRepo)
	importSvc := services.NewImportService(ai, prodRepo, mediaRepo, auditRepo)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc, Repo: orderRepo, Contact: cfg.ContactPhone},
		ChatHandler:    &ChatHandler{Assistant: assistantSvc},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Order: orderSvc, Orders: orderRepo, Audit: auditRepo, Media: mediaRepo},
		ImportHandler:  &ImportHandler{Imports: importSvc},
	}
}
