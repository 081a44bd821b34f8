package usecases

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories"
)

type Repositories struct {
	ExecutorGetter        repositories.ExecutorGetter
	IdentityRepository    repositories.IdentityRepository
	SourceTableRepository repositories.SourceTableRepository
	AuditRepository       repositories.AuditRepository
	DiagnosticsRepository repositories.DiagnosticsRepository
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		ExecutorGetter:        repositories.NewExecutorGetter(pool),
		IdentityRepository:    repositories.IdentityRepositoryPostgresql{},
		SourceTableRepository: repositories.SourceTableRepositoryPostgresql{},
		AuditRepository:       repositories.AuditRepositoryPostgresql{},
		DiagnosticsRepository: repositories.DiagnosticsRepositoryPostgresql{},
	}
}

type Usecases struct {
	Repositories Repositories
	Rules        models.ReviewRules
}

func (usecases Usecases) NewIngestionUsecase() IngestionUsecase {
	return IngestionUsecase{
		executorGetter:        usecases.Repositories.ExecutorGetter,
		identityRepository:    usecases.Repositories.IdentityRepository,
		sourceTableRepository: usecases.Repositories.SourceTableRepository,
		rules:                 usecases.Rules,
	}
}

func (usecases Usecases) NewAuditUsecase() AuditUsecase {
	return AuditUsecase{
		transactionFactory: usecases.Repositories.ExecutorGetter,
		identityLister:     usecases.Repositories.IdentityRepository,
		rowGetter:          usecases.Repositories.SourceTableRepository,
		trailWriter:        usecases.Repositories.AuditRepository,
		rules:              usecases.Rules,
	}
}

func (usecases Usecases) NewRollupUsecase() RollupUsecase {
	return RollupUsecase{
		executorGetter:     usecases.Repositories.ExecutorGetter,
		identityRepository: usecases.Repositories.IdentityRepository,
		auditRepository:    usecases.Repositories.AuditRepository,
		rules:              usecases.Rules,
	}
}

func (usecases Usecases) NewDiagnosticsUsecase() DiagnosticsUsecase {
	return DiagnosticsUsecase{
		executorGetter:        usecases.Repositories.ExecutorGetter,
		identityRepository:    usecases.Repositories.IdentityRepository,
		auditRepository:       usecases.Repositories.AuditRepository,
		diagnosticsRepository: usecases.Repositories.DiagnosticsRepository,
	}
}
