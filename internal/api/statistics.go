package api

import (
	"net/http"

	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/database/model"
	"github.com/EluvK/ai-sketch/internal/util/rest"
)

func (svc *Service) HandleGetDailyStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := database.GetInstance().GetDailyStatistics(model.StatisticTypeUser)
	if err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}
	if stats == nil {
		stats = []*model.DailyStatistic{}
	}

	rest.WriteResponse(http.StatusOK, w, r, stats)
}
