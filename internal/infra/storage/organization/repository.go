package organization

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов к БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с организациями и их парковками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория организаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает организацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"address",
		"open_time",
		"close_time",
		"visitor_hourly_rate",
		"parking_rules",
		"created_at",
		"updated_at",
	).
		From("organizations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var org domain.Organization
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&org.ID,
		&org.Name,
		&org.Address,
		&org.OpenTime,
		&org.CloseTime,
		&org.VisitorHourlyRate,
		&org.ParkingRules,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan organization: %v", ErrScanRow, err)
	}

	org.CreatedAt = createdAt.Time
	org.UpdatedAt = updatedAt.Time

	return &org, nil
}

// Update обновляет тариф и правила парковки организации
// Обновление не затрагивает суммы уже созданных бронирований -
// они зафиксированы в момент создания
func (r *Repository) Update(ctx context.Context, id int64, visitorHourlyRate *float64, parkingRules *string) (*domain.Organization, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("organizations").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if visitorHourlyRate != nil {
		updateBuilder = updateBuilder.Set("visitor_hourly_rate", *visitorHourlyRate)
	}
	if parkingRules != nil {
		updateBuilder = updateBuilder.Set("parking_rules", *parkingRules)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrganizationNotFound
	}

	return r.GetByID(ctx, id)
}

// GetLotsByOrganization получает парковки организации в порядке выделения:
// по возрастанию priority_order, при равном приоритете - по возрастанию id
func (r *Repository) GetLotsByOrganization(ctx context.Context, organizationID int64) ([]*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"organization_id",
		"name",
		"description",
		"total_slots",
		"priority_order",
		"created_at",
		"updated_at",
	).
		From("parking_lots").
		Where(squirrel.Eq{"organization_id": organizationID}).
		OrderBy("priority_order ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLotsByOrganization - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLotsByOrganization - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lots := make([]*domain.ParkingLot, 0)

	for rows.Next() {
		var lot domain.ParkingLot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&lot.ID,
			&lot.OrganizationID,
			&lot.Name,
			&lot.Description,
			&lot.TotalSlots,
			&lot.PriorityOrder,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetLotsByOrganization - scan row: %v", ErrScanRow, err)
		}

		lot.CreatedAt = createdAt.Time
		lot.UpdatedAt = updatedAt.Time

		lots = append(lots, &lot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetLotsByOrganization - rows error: %v", ErrScanRow, err)
	}

	return lots, nil
}

// GetLotByID получает парковку по ID
func (r *Repository) GetLotByID(ctx context.Context, lotID int64) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"organization_id",
		"name",
		"description",
		"total_slots",
		"priority_order",
		"created_at",
		"updated_at",
	).
		From("parking_lots").
		Where(squirrel.Eq{"id": lotID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLotByID - build select query: %v", ErrBuildQuery, err)
	}

	var lot domain.ParkingLot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&lot.ID,
		&lot.OrganizationID,
		&lot.Name,
		&lot.Description,
		&lot.TotalSlots,
		&lot.PriorityOrder,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLotByID - scan lot: %v", ErrScanRow, err)
	}

	lot.CreatedAt = createdAt.Time
	lot.UpdatedAt = updatedAt.Time

	return &lot, nil
}
