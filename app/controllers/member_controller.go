package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/putrasera/seranet/app/models"
	"github.com/putrasera/seranet/app/services"
)

func (server *Server) Home(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"app": server.AppConfig.AppName}, "ok")
}

func parseIDParam(r *http.Request) (uint, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		return 0, services.ErrValidation
	}

	return uint(id), nil
}

// RegisterMember mendaftarkan member baru dengan PIN dan kode sponsor.
func (server *Server) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var input services.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	result, err := services.RegisterMember(server.DB, input)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusCreated, result, "Pendaftaran berhasil")
}

func (server *Server) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	memberModel := models.Member{}
	member, err := memberModel.FindByID(server.DB, id)
	if err != nil {
		JSONError(w, services.ErrNotFound)
		return
	}

	JSON(w, http.StatusOK, member, "ok")
}

// GetMemberTree mengambil subtree jaringan member, default 4 level.
func (server *Server) GetMemberTree(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	depth := 4
	if raw := r.URL.Query().Get("depth"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 10 {
			depth = parsed
		}
	}

	tree, err := services.GetTree(server.DB, id, depth)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, tree, "ok")
}

func (server *Server) GetMemberWallet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	walletModel := models.Wallet{}
	wallet, err := walletModel.FindByMemberID(server.DB, id)
	if err != nil {
		JSONError(w, services.ErrNotFound)
		return
	}

	JSON(w, http.StatusOK, wallet, "ok")
}

func (server *Server) GetMemberBonuses(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var bonuses []models.Bonus
	err = server.DB.Where("member_id = ?", id).
		Order("created_at DESC").Limit(100).Find(&bonuses).Error
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, bonuses, "ok")
}

func (server *Server) GetMemberTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var transactions []models.Transaction
	err = server.DB.Where("member_id = ?", id).
		Order("created_at DESC").Limit(100).Find(&transactions).Error
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, transactions, "ok")
}

func (server *Server) GetMemberNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var notifications []models.Notification
	err = server.DB.Where("member_id = ?", id).
		Order("created_at DESC").Limit(50).Find(&notifications).Error
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, notifications, "ok")
}
