package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge/internal/domain"
	"github.com/carebridge/carebridge/internal/infra/database/models"
)

const patientCacheTTL = 60 // seconds

type PatientRepository struct {
	db *gorm.DB
	mc *memcache.Client
}

// NewPatientRepository builds the gorm-backed store. mc may be nil, in
// which case reads always hit the database.
func NewPatientRepository(db *gorm.DB, mc *memcache.Client) *PatientRepository {
	return &PatientRepository{db: db, mc: mc}
}

func (r *PatientRepository) Save(ctx context.Context, patient domain.Patient) (domain.Patient, error) {

	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
		patient.RegisteredDate = time.Now().UTC().Truncate(24 * time.Hour)

		model := toModel(patient)
		err := r.db.WithContext(ctx).Create(&model).Error
		if err != nil {
			return domain.Patient{}, translateSaveError(err)
		}
		return toEntity(model), nil
	}

	model := toModel(patient)
	err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":          model.Name,
			"email":         model.Email,
			"address":       model.Address,
			"date_of_birth": model.DateOfBirth,
			"m_date":        time.Now().UTC(),
		}).Error
	if err != nil {
		return domain.Patient{}, translateSaveError(err)
	}

	r.invalidate(patient.ID)

	var updated models.Patient
	err = r.db.WithContext(ctx).Where("id = ?", model.ID).Take(&updated).Error
	if err != nil {
		return domain.Patient{}, err
	}
	return toEntity(updated), nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Patient, error) {

	if cached, ok := r.cacheGet(id); ok {
		return toEntity(cached), nil
	}

	var model models.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Patient{}, domain.NotFoundError{Resource: "patient"}
		}
		return domain.Patient{}, err
	}

	r.cacheSet(model)

	return toEntity(model), nil
}

func (r *PatientRepository) FindAll(ctx context.Context) ([]domain.Patient, error) {
	var rows []models.Patient
	err := r.db.WithContext(ctx).Order("c_date asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	patients := make([]domain.Patient, len(rows))
	for i, row := range rows {
		patients[i] = toEntity(row)
	}
	return patients, nil
}

// DeleteByID removes the record if present. Deleting an absent id is not
// an error.
func (r *PatientRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id).Error
	if err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

func (r *PatientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *PatientRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	return count > 0, err
}

func translateSaveError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Field: "email"}
	}
	return err
}

func (r *PatientRepository) cacheGet(id uuid.UUID) (models.Patient, bool) {
	if r.mc == nil {
		return models.Patient{}, false
	}
	item, err := r.mc.Get(cacheKey(id))
	if err != nil {
		return models.Patient{}, false
	}
	var model models.Patient
	if err := json.Unmarshal(item.Value, &model); err != nil {
		return models.Patient{}, false
	}
	return model, true
}

func (r *PatientRepository) cacheSet(model models.Patient) {
	if r.mc == nil {
		return
	}
	value, err := json.Marshal(model)
	if err != nil {
		return
	}
	err = r.mc.Set(&memcache.Item{
		Key:        cacheKey(model.ID),
		Value:      value,
		Expiration: patientCacheTTL,
	})
	if err != nil {
		slog.Debug(
			"patient cache set failed",
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
	}
}

func (r *PatientRepository) invalidate(id uuid.UUID) {
	if r.mc == nil {
		return
	}
	err := r.mc.Delete(cacheKey(id))
	if err != nil && err != memcache.ErrCacheMiss {
		slog.Debug(
			"patient cache invalidation failed",
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
	}
}

func cacheKey(id uuid.UUID) string {
	return "patient:" + id.String()
}

func toModel(p domain.Patient) models.Patient {
	return models.Patient{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Address:        p.Address,
		DateOfBirth:    p.DateOfBirth,
		RegisteredDate: p.RegisteredDate,
	}
}

func toEntity(m models.Patient) domain.Patient {
	return domain.Patient{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Address:        m.Address,
		DateOfBirth:    m.DateOfBirth,
		RegisteredDate: m.RegisteredDate,
	}
}
