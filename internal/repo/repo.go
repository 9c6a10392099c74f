package repo

import (
	"context"

	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/technotes/pkg/db"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return pkgdb.Ping(ctx, r.DB)
}
