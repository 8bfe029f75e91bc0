package controllers

import (
	"github.com/gorilla/mux"
)

func (server *Server) initializeRoutes() {
	server.Router = mux.NewRouter()
	server.Router.HandleFunc("/", server.Home).Methods("GET")

	// MEMBER
	server.Router.HandleFunc("/api/members/register", server.RegisterMember).Methods("POST")
	server.Router.HandleFunc("/api/members/{id}", server.GetMember).Methods("GET")
	server.Router.HandleFunc("/api/members/{id}/tree", server.GetMemberTree).Methods("GET")
	server.Router.HandleFunc("/api/members/{id}/wallet", server.GetMemberWallet).Methods("GET")
	server.Router.HandleFunc("/api/members/{id}/bonuses", server.GetMemberBonuses).Methods("GET")
	server.Router.HandleFunc("/api/members/{id}/transactions", server.GetMemberTransactions).Methods("GET")
	server.Router.HandleFunc("/api/members/{id}/notifications", server.GetMemberNotifications).Methods("GET")

	// WITHDRAWAL (persetujuan ganda)
	server.Router.HandleFunc("/api/withdrawals", server.RequestWithdrawal).Methods("POST")
	server.Router.HandleFunc("/api/withdrawals/pending", server.ListPendingWithdrawals).Methods("GET")
	server.Router.HandleFunc("/api/withdrawals/bendahara-approved", server.ListBendaharaApproved).Methods("GET")
	server.Router.HandleFunc("/api/withdrawals/{id}/bendahara-approve", server.BendaharaApprove).Methods("POST")
	server.Router.HandleFunc("/api/withdrawals/{id}/direktur-approve", server.DirekturApprove).Methods("POST")
	server.Router.HandleFunc("/api/withdrawals/{id}/reject", server.RejectWithdrawal).Methods("POST")

	// STOKIS & PIN
	server.Router.HandleFunc("/api/stokis", server.CreateStokis).Methods("POST")
	server.Router.HandleFunc("/api/stokis/{id}/pins", server.GeneratePins).Methods("POST")
	server.Router.HandleFunc("/api/stokis/{id}/sell-pin", server.SellPin).Methods("POST")
	server.Router.HandleFunc("/api/stokis/{id}/pv-stock", server.AddPvStock).Methods("POST")

	// PEMBELIAN PV
	server.Router.HandleFunc("/api/pv-purchases", server.RequestPVPurchase).Methods("POST")
	server.Router.HandleFunc("/api/pv-purchases/{id}/confirm", server.ConfirmPVPurchase).Methods("POST")
	server.Router.HandleFunc("/api/pv-purchases/{id}/reject", server.RejectPVPurchase).Methods("POST")

	// CRON (dipicu scheduler eksternal)
	server.Router.HandleFunc("/api/cron/bonus-calc", server.CronBonusCalc).Methods("POST")
	server.Router.HandleFunc("/api/cron/settlement", server.CronSettlement).Methods("POST")
	server.Router.HandleFunc("/api/cron/weekly-check", server.CronWeeklyCheck).Methods("POST")

	// WEBHOOK
	server.Router.HandleFunc("/api/webhooks/xendit/disbursement", server.XenditDisbursementWebhook).Methods("POST")
}
