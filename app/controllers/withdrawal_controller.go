package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
	"github.com/putrasera/seranet/app/services"
)

type withdrawalRequestInput struct {
	MemberID      uint            `json:"member_id"`
	Amount        decimal.Decimal `json:"amount"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	AccountHolder string          `json:"account_holder"`
}

type approvalInput struct {
	ApproverID uint   `json:"approver_id"`
	Reason     string `json:"reason"`
}

func (server *Server) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var input withdrawalRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	withdrawal, err := services.RequestWithdrawal(server.DB, input.MemberID, input.Amount,
		input.BankName, input.AccountNumber, input.AccountHolder)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusCreated, withdrawal, "Permintaan penarikan dibuat")
}

func (server *Server) ListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawalModel := models.Withdrawal{}
	items, err := withdrawalModel.FindByStatus(server.DB, consts.WithdrawalPending)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, items, "ok")
}

func (server *Server) ListBendaharaApproved(w http.ResponseWriter, r *http.Request) {
	withdrawalModel := models.Withdrawal{}
	items, err := withdrawalModel.FindByStatus(server.DB, consts.WithdrawalBendaharaApproved)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, items, "ok")
}

func (server *Server) BendaharaApprove(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input approvalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	if err := services.BendaharaApprove(server.DB, id, input.ApproverID); err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "Disetujui bendahara")
}

func (server *Server) DirekturApprove(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input approvalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	if err := services.DirekturApprove(server.DB, server.Gateway, id, input.ApproverID); err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "Disetujui direktur, disbursement diproses")
}

func (server *Server) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input approvalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	if err := services.RejectWithdrawal(server.DB, id, input.ApproverID, input.Reason); err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "Penarikan ditolak")
}

// XenditDisbursementWebhook menerima callback status payout.
func (server *Server) XenditDisbursementWebhook(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	err := services.HandleDisbursementStatus(server.DB, payload.Data.ID, payload.Data.Status)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "ok")
}
