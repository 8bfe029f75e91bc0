package controllers

import (
	"net/http"

	"github.com/putrasera/seranet/app/services"
)

// Endpoint cron dipanggil scheduler eksternal. Idempotensi settlement
// dijaga di service lewat klaim periode, bukan di sini.

func (server *Server) CronBonusCalc(w http.ResponseWriter, r *http.Request) {
	result, err := services.RunDailyBonusCalc(server.DB)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, result, "Kalkulasi bonus harian selesai")
}

func (server *Server) CronSettlement(w http.ResponseWriter, r *http.Request) {
	start, end := services.DefaultSettlementWindow()

	if raw := r.URL.Query().Get("period_start"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			JSONError(w, services.ErrValidation)
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("period_end"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			JSONError(w, services.ErrValidation)
			return
		}
		end = parsed
	}

	result, err := services.RunBiweeklySettlement(server.DB, start, end)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, result, "Settlement selesai")
}

func (server *Server) CronWeeklyCheck(w http.ResponseWriter, r *http.Request) {
	result, err := services.RunWeeklyRepurchaseCheck(server.DB)
	if err != nil {
		JSONError(w, err)
		return
	}

	JSON(w, http.StatusOK, result, "Cek repurchase mingguan selesai")
}
