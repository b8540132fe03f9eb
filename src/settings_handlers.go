package main

import (
	"net/http"

	"rsv/src/db"
	"rsv/src/models"
	"rsv/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings", func(ctx *gin.Context) {
			db := db.GetDb()
			model := db.Model(&models.Setting{})
			if group := ctx.Query("group"); group != "" {
				model = model.Where(&models.Setting{Group: group})
			}
			var settings []models.Setting
			if err := model.Find(&settings).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		POST("/settings", func(ctx *gin.Context) {
			var body types.CreateSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				setting := models.Setting{
					SettingKey:   body.Key,
					SettingValue: types.JSONBAny{Inner: body.Value},
					Group:        body.Group,
				}
				return tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "setting_key"}, {Name: "group"}},
					DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
				}).Create(&setting).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			models.InvalidateSettingCache(body.Key)
			ctx.Status(http.StatusOK)
		})
	return g
}
