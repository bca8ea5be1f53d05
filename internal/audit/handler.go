package audit

import (
	"strconv"

	"cashier-backend/internal/httpx"
	"cashier-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /api/audit-logs?entity_type=order&entity_id=1&limit=50
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, err := httpx.QueryID(c, "entity_id")
		if err != nil {
			return err
		}
		limit, _ := strconv.Atoi(c.Query("limit"))

		logs, err := List(c.UserContext(), db, ListFilter{
			EntityType: c.Query("entity_type"),
			EntityID:   entityID,
			Limit:      limit,
		})
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          log.ID,
				CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      log.UserID,
				EntityType:  log.EntityType,
				EntityID:    log.EntityID,
				Action:      log.Action,
				Description: log.Description,
			})
		}
		return c.JSON(resp)
	}
}

func Register(r fiber.Router, db *gorm.DB) {
	r.Get("/audit-logs", ListAuditLogsHandler(db))
}
