package main

import (
	"eventify/src/common"
	"eventify/src/db"
	"eventify/src/middlewares"
	"eventify/src/models"
	"eventify/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/admin")
	admin.Use(middlewares.RequireRole(types.ROLE_ADMIN))
	admin.
		GET("/dashboard/stats", func(ctx *gin.Context) {
			var stats types.AdminDashboardStats
			gdb := db.GetDb()
			if err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&models.Event{}).Count(&stats.TotalEvents).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Booking{}).Where("status = ?", types.BOOKING_PENDING).Count(&stats.PendingBookings).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Booking{}).Where("status = ?", types.BOOKING_CONFIRMED).Count(&stats.ConfirmedBookings).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Booking{}).Where("status = ?", types.BOOKING_CANCELED).Count(&stats.CancelledBookings).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Payment{}).
					Where("status = ?", types.PAYMENT_COMPLETED).
					Select("COALESCE(SUM(amount), 0)").
					Scan(&stats.TotalRevenue).
					Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				log.Printf("error computing dashboard stats: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		}).
		GET("/users", func(ctx *gin.Context) {
			var users []models.User
			gdb := db.GetDb()
			if err := gdb.
				Model(&models.User{}).
				Order("created_at desc").
				Find(&users).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var bookings []models.Booking
			gdb := db.GetDb()
			if err := gdb.
				Model(&models.Booking{}).
				Preload("User").
				Preload("Event").
				Preload("Payment").
				Order("created_at desc").
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.DeleteBooking(params.ID); err != nil {
				log.Printf("error deleting booking %d: %s\n", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
