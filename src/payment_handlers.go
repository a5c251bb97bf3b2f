package main

import (
	"eventify/src/common"
	"eventify/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/initiate/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			initiation, err := common.InitiatePayment(params.ID)
			if err != nil {
				log.Printf("error initiating payment for booking %d: %s\n", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": initiation})
		})
	return g
}

// paymentWebhookRoute is the inbound boundary for the external payment
// flow; it is unauthenticated because the transaction id is the
// credential, exactly once per terminal payment decision.
func paymentWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/payments/webhook", func(ctx *gin.Context) {
		var body types.PaymentOutcomeRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		booking, err := common.ProcessPaymentOutcome(&body)
		if err != nil {
			log.Printf("error processing payment outcome %s: %s\n", body.TransactionID, err.Error())
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": booking})
	})
	return apiv1
}
