package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"akita-connect/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, owner_user_id,
	name, sex, birth_date, color, titles, photo_url,
	sire_id, dam_id,
	created_at, updated_at
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, owner_user_id,
			name, sex, birth_date, color, titles, photo_url,
			sire_id, dam_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.OwnerUserID,
		a.Name,
		string(a.Sex),
		toNullTime(a.BirthDate),
		a.Color,
		a.Titles,
		a.PhotoURL,
		toNullString(a.SireID),
		toNullString(a.DamID),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			sex = $3,
			birth_date = $4,
			color = $5,
			titles = $6,
			photo_url = $7,
			sire_id = $8,
			dam_id = $9,
			updated_at = $10
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		string(a.Sex),
		toNullTime(a.BirthDate),
		a.Color,
		a.Titles,
		a.PhotoURL,
		toNullString(a.SireID),
		toNullString(a.DamID),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

func (r *AnimalsRepo) SearchByName(ctx context.Context, q string, limit int) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2
	`, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

func (r *AnimalsRepo) AddHealthRecord(ctx context.Context, hr animals.HealthRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (id, animal_id, type, date, result, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		hr.ID,
		hr.AnimalID,
		hr.Type,
		hr.Date,
		hr.Result,
		hr.Notes,
		hr.CreatedAt,
	)
	return err
}

func (r *AnimalsRepo) ListHealthRecords(ctx context.Context, animalID string) ([]animals.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, type, date, result, notes, created_at
		FROM health_records
		WHERE animal_id = $1
		ORDER BY date ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.HealthRecord, 0)
	for rows.Next() {
		var hr animals.HealthRecord
		if err := rows.Scan(
			&hr.ID,
			&hr.AnimalID,
			&hr.Type,
			&hr.Date,
			&hr.Result,
			&hr.Notes,
			&hr.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	return out, rows.Err()
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var sex string
	var bd sql.NullTime
	var sire, dam sql.NullString
	err := row.Scan(
		&a.ID,
		&a.OwnerUserID,
		&a.Name,
		&sex,
		&bd,
		&a.Color,
		&a.Titles,
		&a.PhotoURL,
		&sire,
		&dam,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return animals.Animal{}, err
	}
	a.Sex = animals.Sex(sex)
	if bd.Valid {
		t := bd.Time
		a.BirthDate = &t
	}
	a.SireID = fromNullString(sire)
	a.DamID = fromNullString(dam)
	return a, nil
}

func collectAnimals(rows *sql.Rows) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
