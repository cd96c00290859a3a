// internal/repository/conversation_store.go

// Package repository persists conversations, vehicles, and the message
// log in PostgreSQL. Writes to one conversation happen inside single
// transactions so concurrent turns on different conversations never
// interleave within a record.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/models"
)

type ConversationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewConversationStore(db *sql.DB, log logger.Logger) *ConversationStore {
	return &ConversationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "repository"}),
	}
}

// CreateConversation inserts a fresh record positioned at the first
// state of the flow.
func (s *ConversationStore) CreateConversation(ctx context.Context) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:           uuid.New().String(),
		CurrentState: models.StateZipCode,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	const query = `
		INSERT INTO conversations (id, current_state, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, conv.ID, string(conv.CurrentState), conv.CreatedAt, conv.UpdatedAt); err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("create conversation", err)
	}

	return conv, nil
}

// GetConversation loads a conversation and its vehicles in append order.
func (s *ConversationStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	const query = `
		SELECT id, zip_code, full_name, email, license_type, license_status,
		       current_state, created_at, updated_at
		FROM conversations
		WHERE id = $1`

	conv := &models.Conversation{}
	var (
		zipCode       sql.NullString
		fullName      sql.NullString
		email         sql.NullString
		licenseType   sql.NullString
		licenseStatus sql.NullString
		state         string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&conv.ID, &zipCode, &fullName, &email, &licenseType, &licenseStatus,
		&state, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewConversationNotFound(id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("get conversation", err)
	}

	conv.CurrentState = models.State(state)
	conv.ZipCode = nullableString(zipCode)
	conv.FullName = nullableString(fullName)
	conv.Email = nullableString(email)
	if licenseType.Valid {
		lt := models.LicenseType(licenseType.String)
		conv.LicenseType = &lt
	}
	if licenseStatus.Valid {
		ls := models.LicenseStatus(licenseStatus.String)
		conv.LicenseStatus = &ls
	}

	vehicles, err := s.loadVehicles(ctx, id)
	if err != nil {
		return nil, err
	}
	conv.Vehicles = vehicles

	return conv, nil
}

func (s *ConversationStore) loadVehicles(ctx context.Context, conversationID string) ([]*models.Vehicle, error) {
	const query = `
		SELECT id, conversation_id, position, vin, year, make, body_type,
		       vehicle_use, blind_spot_warning, days_per_week, one_way_miles, annual_mileage
		FROM vehicles
		WHERE conversation_id = $1
		ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("load vehicles", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		veh := &models.Vehicle{}
		var (
			vin, make, bodyType, vehicleUse         sql.NullString
			year, daysPerWeek, oneWayMiles, mileage sql.NullInt64
			blindSpot                               sql.NullBool
		)
		if err := rows.Scan(
			&veh.ID, &veh.ConversationID, &veh.Position, &vin, &year, &make, &bodyType,
			&vehicleUse, &blindSpot, &daysPerWeek, &oneWayMiles, &mileage,
		); err != nil {
			return nil, apperrors.NewDatabaseQueryFailed("scan vehicle", err)
		}
		veh.VIN = nullableString(vin)
		veh.Year = nullableInt(year)
		veh.Make = nullableString(make)
		veh.BodyType = nullableString(bodyType)
		if vehicleUse.Valid {
			use := models.VehicleUse(vehicleUse.String)
			veh.Use = &use
		}
		if blindSpot.Valid {
			b := blindSpot.Bool
			veh.BlindSpotWarning = &b
		}
		veh.DaysPerWeek = nullableInt(daysPerWeek)
		veh.OneWayMiles = nullableInt(oneWayMiles)
		veh.AnnualMileage = nullableInt(mileage)
		vehicles = append(vehicles, veh)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("iterate vehicles", err)
	}

	return vehicles, nil
}

// SaveConversation writes the applicant fields, state, and all vehicles
// in one transaction.
func (s *ConversationStore) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseQueryFailed("begin save conversation", err)
	}
	defer tx.Rollback()

	conv.UpdatedAt = time.Now().UTC()

	const updateConv = `
		UPDATE conversations
		SET zip_code = $2, full_name = $3, email = $4, license_type = $5,
		    license_status = $6, current_state = $7, updated_at = $8
		WHERE id = $1`
	_, err = tx.ExecContext(ctx, updateConv,
		conv.ID, conv.ZipCode, conv.FullName, conv.Email,
		licenseTypeValue(conv.LicenseType), licenseStatusValue(conv.LicenseStatus),
		string(conv.CurrentState), conv.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseQueryFailed("update conversation", err)
	}

	const upsertVehicle = `
		INSERT INTO vehicles (id, conversation_id, position, vin, year, make, body_type,
		                      vehicle_use, blind_spot_warning, days_per_week, one_way_miles, annual_mileage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			vin = EXCLUDED.vin, year = EXCLUDED.year, make = EXCLUDED.make,
			body_type = EXCLUDED.body_type, vehicle_use = EXCLUDED.vehicle_use,
			blind_spot_warning = EXCLUDED.blind_spot_warning,
			days_per_week = EXCLUDED.days_per_week,
			one_way_miles = EXCLUDED.one_way_miles,
			annual_mileage = EXCLUDED.annual_mileage`
	for _, veh := range conv.Vehicles {
		_, err = tx.ExecContext(ctx, upsertVehicle,
			veh.ID, veh.ConversationID, veh.Position, veh.VIN, veh.Year, veh.Make, veh.BodyType,
			vehicleUseValue(veh.Use), veh.BlindSpotWarning, veh.DaysPerWeek, veh.OneWayMiles, veh.AnnualMileage,
		)
		if err != nil {
			return apperrors.NewDatabaseQueryFailed("upsert vehicle", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseQueryFailed("commit save conversation", err)
	}
	return nil
}

// AppendMessage inserts a message with the next sequence number for its
// conversation, computed in the same statement so concurrent appends to
// one conversation cannot reuse a slot.
func (s *ConversationStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO messages (id, conversation_id, role, content, seq, created_at)
		SELECT $1, $2, $3, $4, COALESCE(MAX(seq), 0) + 1, $5
		FROM messages
		WHERE conversation_id = $2
		RETURNING seq`
	err := s.db.QueryRowContext(ctx, query,
		msg.ID, msg.ConversationID, string(msg.Role), msg.Content, msg.CreatedAt,
	).Scan(&msg.Seq)
	if err != nil {
		return apperrors.NewDatabaseQueryFailed("append message", err)
	}
	return nil
}

// RecentMessages returns the last limit messages in chronological order.
func (s *ConversationStore) RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	const query = `
		SELECT id, conversation_id, role, content, seq, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY seq DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("recent messages", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Newest-first from the query, oldest-first for callers.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListMessages returns the full log in chronological order.
func (s *ConversationStore) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	const query = `
		SELECT id, conversation_id, role, content, seq, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("list messages", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &msg.Seq, &msg.CreatedAt); err != nil {
			return nil, apperrors.NewDatabaseQueryFailed("scan message", err)
		}
		msg.Role = models.Role(role)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseQueryFailed("iterate messages", err)
	}
	return messages, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func licenseTypeValue(lt *models.LicenseType) interface{} {
	if lt == nil {
		return nil
	}
	return string(*lt)
}

func licenseStatusValue(ls *models.LicenseStatus) interface{} {
	if ls == nil {
		return nil
	}
	return string(*ls)
}

func vehicleUseValue(u *models.VehicleUse) interface{} {
	if u == nil {
		return nil
	}
	return string(*u)
}
