package biz

import (
	"github.com/joinwarden/joinwarden/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Lifecycle *usecase.LifecycleUsecase
	Report    *usecase.ReportUsecase
	Stats     *usecase.StatsUsecase
}
