package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/auth"
	"github.com/MikeMC777/cardstore/internal/user"
	"github.com/MikeMC777/cardstore/internal/validation"
)

// POST /users registers a customer account.
func registerHandler(repo user.Repository, v *validator.Validate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		u, err := user.Register(c.Request.Context(), repo, req.Email, req.Password, auth.RoleCustomer)
		if errors.Is(err, user.ErrAlreadyExist) {
			c.JSON(http.StatusConflict, gin.H{"error": "already_exists", "msg": err.Error()})
			return
		}
		if err != nil {
			logger.Error("register", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		logger.Info("user registered", zap.Int64("user_id", u.ID))
		c.JSON(http.StatusCreated, u.Profile())
	}
}

// GET /users/me returns the authenticated caller's profile.
func meHandler(repo user.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.FromGin(c)
		u, err := repo.GetByID(c.Request.Context(), p.UserID)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		if err != nil {
			logger.Error("get user", zap.Int64("user_id", p.UserID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		c.JSON(http.StatusOK, u.Profile())
	}
}

// GET /users/:id is open to the user and to admins.
func getUserHandler(repo user.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "msg": "invalid user id"})
			return
		}
		p, _ := auth.FromGin(c)
		if !auth.IsSelfOrAdmin(p, id) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		u, err := repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		if err != nil {
			logger.Error("get user", zap.Int64("user_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		c.JSON(http.StatusOK, u.Profile())
	}
}
