package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/putrasera/seranet/app/services"
)

type createStokisInput struct {
	MemberID uint   `json:"member_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (server *Server) CreateStokis(w http.ResponseWriter, r *http.Request) {
	var input createStokisInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	stokis, err := services.CreateStokis(server.DB, input.MemberID, input.Name, input.Address, input.Phone)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusCreated, stokis, "Stokis dibuat")
}

func (server *Server) GeneratePins(w http.ResponseWriter, r *http.Request) {
	stokisID, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input struct {
		GeneratedByID *uint `json:"generated_by_id"`
		Count         int   `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	pins, err := services.GeneratePins(server.DB, &stokisID, input.GeneratedByID, input.Count)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusCreated, pins, "PIN dibuat")
}

func (server *Server) SellPin(w http.ResponseWriter, r *http.Request) {
	stokisID, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input struct {
		BuyerMemberID uint `json:"buyer_member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	pin, err := services.SellPin(server.DB, stokisID, input.BuyerMemberID)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, pin, "PIN terjual")
}

func (server *Server) AddPvStock(w http.ResponseWriter, r *http.Request) {
	stokisID, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input struct {
		PVAmount decimal.Decimal `json:"pv_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	if err := services.AddPvStock(server.DB, stokisID, input.PVAmount); err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "Stok PV ditambahkan")
}

type pvPurchaseInput struct {
	MemberID      uint            `json:"member_id"`
	StokisID      uint            `json:"stokis_id"`
	PVAmount      decimal.Decimal `json:"pv_amount"`
	PaymentMethod string          `json:"payment_method"`
}

func (server *Server) RequestPVPurchase(w http.ResponseWriter, r *http.Request) {
	var input pvPurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	purchase, err := services.RequestPVPurchase(server.DB, input.MemberID, input.StokisID,
		input.PVAmount, input.PaymentMethod)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusCreated, purchase, "Pembelian PV dibuat")
}

func (server *Server) ConfirmPVPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	if err := services.ConfirmPVPurchase(server.DB, id); err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "Pembelian PV dikonfirmasi")
}

func (server *Server) RejectPVPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		JSONError(w, err)
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, services.ErrValidation)
		return
	}

	if err := services.RejectPVPurchase(server.DB, id, input.Reason); err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, nil, "Pembelian PV ditolak")
}
