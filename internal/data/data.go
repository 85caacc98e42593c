package data

import (
	"github.com/joinwarden/joinwarden/internal/biz/repo"
	"github.com/joinwarden/joinwarden/telegram"
)

// Repositories contains all repositories
type Repositories struct {
	Platform repo.PlatformRepo
	Stats    repo.StatsRepo
}

// NewRepositories creates all repositories
func NewRepositories(tgClient *telegram.Client, statsDBPath string) (*Repositories, error) {
	statsRepo, err := NewStatsRepo(statsDBPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Platform: NewTelegramRepo(tgClient),
		Stats:    statsRepo,
	}, nil
}
