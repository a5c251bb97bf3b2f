package controllers

import (
	"eventify/src/db"
	"eventify/src/models"
	"eventify/src/types"
	"eventify/src/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthRegister(ctx *gin.Context) (uint, int, error) {
	var body types.RegisterRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return 0, http.StatusBadRequest, err
	}

	gdb := db.GetDb()
	var existing models.User
	err := gdb.
		Where(&models.User{Email: body.Email}).
		First(&existing).
		Error
	if err == nil {
		return 0, http.StatusConflict, types.ConflictError("User already exists with email: %s", body.Email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, http.StatusInternalServerError, err
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return 0, http.StatusInternalServerError, err
	}
	user := models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
		Role:     types.ROLE_USER,
	}
	if err := gdb.Create(&user).Error; err != nil {
		return 0, http.StatusInternalServerError, err
	}
	return user.ID, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (string, int, error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return "", http.StatusBadRequest, err
	}

	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", http.StatusUnauthorized, types.NotFoundError("Invalid email or password")
		}
		return "", http.StatusInternalServerError, err
	}
	if !utils.CheckPassword(user.Password, body.Password) {
		return "", http.StatusUnauthorized, types.InvalidStateError("Invalid email or password")
	}

	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating JWT token: %s\n", err.Error())
		return "", http.StatusInternalServerError, err
	}
	return token, http.StatusOK, nil
}

func GetCurrentUser(ctx *gin.Context) (*models.User, int, error) {
	email := ctx.GetString("email")
	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Where(&models.User{Email: email}).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, types.NotFoundError("User not found with email: %s", email)
		}
		return nil, http.StatusInternalServerError, err
	}
	return &user, http.StatusOK, nil
}
