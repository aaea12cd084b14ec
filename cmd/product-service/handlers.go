package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/httpx"
	"github.com/MikeMC777/cardstore/internal/inventory"
	"github.com/MikeMC777/cardstore/internal/validation"
)

// GET /listings?q=&limit=&offset=
func listListingsHandler(repo inventory.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		q := inventory.Query{Q: strings.TrimSpace(c.Query("q")), Limit: limit, Offset: offset}.Normalized()

		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		if items == nil {
			items = []inventory.Listing{}
		}
		c.JSON(http.StatusOK, inventory.ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

// GET /listings/:id
func getListingHandler(repo inventory.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := listingID(c)
		if !ok {
			return
		}
		l, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

// PUT /listings/:id/price (admin). Existing order lines keep the price they
// were created with.
func updatePriceHandler(repo inventory.Repository, v *validator.Validate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := listingID(c)
		if !ok {
			return
		}
		var req inventory.UpdatePriceRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		price := decimal.RequireFromString(req.Price)

		l, err := repo.UpdatePrice(c.Request.Context(), id, price)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		logger.Info("listing price updated", zap.Int64("listing_id", id), zap.String("price", price.StringFixed(2)))
		c.JSON(http.StatusOK, l)
	}
}

func listingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, inventory.HTTPError{Error: "invalid_request", Msg: "invalid listing id"})
		return 0, false
	}
	return id, true
}
