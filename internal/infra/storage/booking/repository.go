package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"organization_id",
	"lot_id",
	"slot_number",
	"user_id",
	"user_role",
	"user_org_id",
	"vehicle_number",
	"vehicle_type",
	"start_time",
	"end_time",
	"duration_hours",
	"amount",
	"status",
	"entry_time",
	"exit_time",
	"penalty_amount",
	"overstay_minutes",
	"rebooking_id",
	"created_at",
	"updated_at",
}

// occupyingStatusStrings статусы, удерживающие слот, в строковом виде для SQL
var occupyingStatusStrings = func() []string {
	out := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		out[i] = string(s)
	}
	return out
}()

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Создание со слотом всегда должно выполняться в сериализуемой транзакции вместе
// с проверкой занятости, иначе возможна гонка за последний слот.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"organization_id",
			"lot_id",
			"slot_number",
			"user_id",
			"user_role",
			"user_org_id",
			"vehicle_number",
			"vehicle_type",
			"start_time",
			"end_time",
			"duration_hours",
			"amount",
			"status",
		).
		Values(
			booking.OrganizationID,
			booking.LotID,
			booking.SlotNumber,
			booking.UserID,
			booking.UserRole,
			booking.UserOrgID,
			booking.VehicleNumber,
			booking.VehicleType,
			booking.StartTime,
			booking.EndTime,
			booking.DurationHours,
			booking.Amount,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку - статусные переходы сериализуются
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByOrganizationWithFilter получает бронирования организации с гибкой фильтрацией
// Поддерживает фильтрацию по парковке, периоду, статусу и включению неактивных бронирований
func (r *Repository) GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"organization_id": filter.OrganizationID}).
		OrderBy("start_time DESC")

	if filter.LotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"lot_id": *filter.LotID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		terminalStatusStrings := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminalStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminalStatusStrings})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganizationWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganizationWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetOverlappingByLot получает бронирования парковки, удерживающие слот и
// пересекающиеся с указанным диапазоном [start, end)
// Внутри транзакции добавляет FOR UPDATE - для атомарной проверки и резервирования
func (r *Repository) GetOverlappingByLot(ctx context.Context, lotID int64, rng domain.TimeRange) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"lot_id": lotID}).
		Where(squirrel.Eq{"status": occupyingStatusStrings}).
		// Полуоткрытые интервалы: [s1,e1) и [s2,e2) пересекаются <=> s1 < e2 AND s2 < e1
		Where(squirrel.Lt{"start_time": rng.End}).
		Where(squirrel.Gt{"end_time": rng.Start}).
		OrderBy("slot_number ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingByLot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingByLot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountOccupiedByLot подсчитывает количество занятых слотов парковки в данный момент
// Слот занят, если бронирование активно и накрывает текущий момент,
// либо находится в просрочке (машина ещё не выехала)
func (r *Repository) CountOccupiedByLot(ctx context.Context, lotID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"lot_id": lotID}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"status": []string{
					string(domain.StatusPending),
					string(domain.StatusConfirmed),
					string(domain.StatusActive),
				}},
				squirrel.LtOrEq{"start_time": now},
				squirrel.Gt{"end_time": now},
			},
			squirrel.Eq{"status": string(domain.StatusOverstay)},
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountOccupiedByLot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountOccupiedByLot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// GetExpired получает бронирования, у которых время окончания прошло,
// но завершение не зафиксировано. Используется обходом авто-просрочки.
// Внутри транзакции блокирует строки (FOR UPDATE), чтобы обход и действия
// пользователя над одним бронированием сериализовались.
func (r *Repository) GetExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": []string{
			string(domain.StatusConfirmed),
			string(domain.StatusActive),
		}}).
		Where(squirrel.Lt{"end_time": now}).
		OrderBy("end_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExpired - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExpired - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Cancel переводит бронирование в статус cancelled
// Переход разрешён только из pending/confirmed; 0 затронутых строк означает,
// что бронирование конкурентно изменено (ErrStaleState)
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	return r.conditionalUpdate(ctx, "Cancel",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusCancelled).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": []string{
				string(domain.StatusPending),
				string(domain.StatusConfirmed),
			}}),
	)
}

// Confirm переводит оплаченное бронирование из pending в confirmed
func (r *Repository) Confirm(ctx context.Context, id int64) error {
	return r.conditionalUpdate(ctx, "Confirm",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusConfirmed).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": string(domain.StatusPending)}),
	)
}

// RecordEntry фиксирует въезд: confirmed -> active с отметкой времени въезда
func (r *Repository) RecordEntry(ctx context.Context, id int64, entryTime time.Time) error {
	return r.conditionalUpdate(ctx, "RecordEntry",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusActive).
			Set("entry_time", entryTime).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": string(domain.StatusConfirmed)}),
	)
}

// Complete переводит бронирование в completed с отметкой времени выезда
// Переход разрешён только из confirmed/active
func (r *Repository) Complete(ctx context.Context, id int64, exitTime time.Time) error {
	return r.conditionalUpdate(ctx, "Complete",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusCompleted).
			Set("exit_time", exitTime).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": []string{
				string(domain.StatusConfirmed),
				string(domain.StatusActive),
			}}),
	)
}

// MarkOverstay переводит бронирование в overstay с зафиксированным штрафом
// Повторный вызов для уже просроченного бронирования не проходит по условию
// статуса - обход авто-просрочки идемпотентен
func (r *Repository) MarkOverstay(ctx context.Context, id int64, penalty domain.PenaltyInfo) error {
	return r.conditionalUpdate(ctx, "MarkOverstay",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusOverstay).
			Set("penalty_amount", penalty.Amount).
			Set("overstay_minutes", penalty.OverstayMinutes).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": []string{
				string(domain.StatusConfirmed),
				string(domain.StatusActive),
			}}),
	)
}

// SettlePenalty завершает просроченное бронирование после оплаты штрафа
func (r *Repository) SettlePenalty(ctx context.Context, id int64, exitTime time.Time, penalty domain.PenaltyInfo) error {
	return r.conditionalUpdate(ctx, "SettlePenalty",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusCompleted).
			Set("exit_time", exitTime).
			Set("penalty_amount", penalty.Amount).
			Set("overstay_minutes", penalty.OverstayMinutes).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": string(domain.StatusOverstay)}),
	)
}

// SetRebookingID связывает исходное бронирование с созданным при оплате штрафа
func (r *Repository) SetRebookingID(ctx context.Context, id int64, rebookingID int64) error {
	return r.conditionalUpdate(ctx, "SetRebookingID",
		psqlbuilder.Update("bookings").
			Set("rebooking_id", rebookingID).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}),
	)
}

// ExtendEnd сдвигает время окончания бронирования
// Условие prevEnd защищает от гонки: если конкурентная операция уже изменила
// время окончания или статус, обновление не применится (ErrStaleState)
func (r *Repository) ExtendEnd(ctx context.Context, id int64, prevEnd, newEnd time.Time, newDurationHours int, newAmount float64) error {
	return r.conditionalUpdate(ctx, "ExtendEnd",
		psqlbuilder.Update("bookings").
			Set("end_time", newEnd).
			Set("duration_hours", newDurationHours).
			Set("amount", newAmount).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"end_time": prevEnd}).
			Where(squirrel.Eq{"status": []string{
				string(domain.StatusPending),
				string(domain.StatusConfirmed),
				string(domain.StatusActive),
			}}),
	)
}

// conditionalUpdate выполняет условный UPDATE; 0 затронутых строк -> ErrStaleState
func (r *Repository) conditionalUpdate(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStaleState
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func (r *Repository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.OrganizationID,
		&booking.LotID,
		&booking.SlotNumber,
		&booking.UserID,
		&booking.UserRole,
		&booking.UserOrgID,
		&booking.VehicleNumber,
		&booking.VehicleType,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationHours,
		&booking.Amount,
		&booking.Status,
		&booking.EntryTime,
		&booking.ExitTime,
		&booking.PenaltyAmount,
		&booking.OverstayMinutes,
		&booking.RebookingID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.OrganizationID,
			&booking.LotID,
			&booking.SlotNumber,
			&booking.UserID,
			&booking.UserRole,
			&booking.UserOrgID,
			&booking.VehicleNumber,
			&booking.VehicleType,
			&booking.StartTime,
			&booking.EndTime,
			&booking.DurationHours,
			&booking.Amount,
			&booking.Status,
			&booking.EntryTime,
			&booking.ExitTime,
			&booking.PenaltyAmount,
			&booking.OverstayMinutes,
			&booking.RebookingID,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
