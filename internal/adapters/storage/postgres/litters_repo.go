package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"akita-connect/internal/domain/litters"
)

type LittersRepo struct {
	db *sql.DB
}

func NewLittersRepo(db *sql.DB) *LittersRepo {
	return &LittersRepo{db: db}
}

const litterColumns = `
	id, breeder_user_id, sire_id, dam_id,
	whelped_at, description,
	listing_status, approval_status,
	rejection_reason, approved_by, approved_at,
	puppies,
	created_at, updated_at
`

func (r *LittersRepo) Create(ctx context.Context, l litters.Litter) error {
	pups, err := marshalPuppies(l.Puppies)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO litters (
			id, breeder_user_id, sire_id, dam_id,
			whelped_at, description,
			listing_status, approval_status,
			rejection_reason, approved_by, approved_at,
			puppies,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		l.ID,
		l.BreederUserID,
		l.SireID,
		l.DamID,
		toNullTime(l.WhelpedAt),
		l.Description,
		string(l.ListingStatus),
		string(l.ApprovalStatus),
		l.RejectionReason,
		l.ApprovedBy,
		toNullTime(l.ApprovedAt),
		pups,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

func (r *LittersRepo) Update(ctx context.Context, l litters.Litter) error {
	pups, err := marshalPuppies(l.Puppies)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE litters
		SET
			sire_id = $2,
			dam_id = $3,
			whelped_at = $4,
			description = $5,
			listing_status = $6,
			approval_status = $7,
			rejection_reason = $8,
			approved_by = $9,
			approved_at = $10,
			puppies = $11,
			updated_at = $12
		WHERE id = $1
	`,
		l.ID,
		l.SireID,
		l.DamID,
		toNullTime(l.WhelpedAt),
		l.Description,
		string(l.ListingStatus),
		string(l.ApprovalStatus),
		l.RejectionReason,
		l.ApprovedBy,
		toNullTime(l.ApprovedAt),
		pups,
		l.UpdatedAt,
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

func (r *LittersRepo) GetByID(ctx context.Context, id string) (litters.Litter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return litters.Litter{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+litterColumns+`
		FROM litters
		WHERE id = $1
	`, id)

	l, err := scanLitter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return litters.Litter{}, ErrNotFound
		}
		return litters.Litter{}, err
	}
	return l, nil
}

func (r *LittersRepo) ListByBreeder(ctx context.Context, breederUserID string) ([]litters.Litter, error) {
	return r.list(ctx, `WHERE breeder_user_id = $1`, breederUserID)
}

func (r *LittersRepo) ListPending(ctx context.Context) ([]litters.Litter, error) {
	return r.list(ctx, `WHERE approval_status = 'pending'`)
}

func (r *LittersRepo) ListApprovedListed(ctx context.Context) ([]litters.Litter, error) {
	return r.list(ctx, `WHERE approval_status = 'approved' AND listing_status = 'listed'`)
}

func (r *LittersRepo) list(ctx context.Context, where string, args ...any) ([]litters.Litter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+litterColumns+`
		FROM litters
		`+where+`
		ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]litters.Litter, 0)
	for rows.Next() {
		l, err := scanLitter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLitter(row rowScanner) (litters.Litter, error) {
	var l litters.Litter
	var listing, approval string
	var whelped, approvedAt sql.NullTime
	var pups []byte
	err := row.Scan(
		&l.ID,
		&l.BreederUserID,
		&l.SireID,
		&l.DamID,
		&whelped,
		&l.Description,
		&listing,
		&approval,
		&l.RejectionReason,
		&l.ApprovedBy,
		&approvedAt,
		&pups,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return litters.Litter{}, err
	}
	l.ListingStatus = litters.ListingStatus(listing)
	l.ApprovalStatus = litters.ApprovalStatus(approval)
	l.WhelpedAt = fromNullTime(whelped)
	l.ApprovedAt = fromNullTime(approvedAt)
	if len(pups) > 0 {
		if err := json.Unmarshal(pups, &l.Puppies); err != nil {
			return litters.Litter{}, err
		}
	}
	return l, nil
}

// Puppies live inside the litter row as a jsonb column; they are only ever
// read and written through their litter.
func marshalPuppies(ps []litters.Puppy) ([]byte, error) {
	if ps == nil {
		ps = []litters.Puppy{}
	}
	return json.Marshal(ps)
}
