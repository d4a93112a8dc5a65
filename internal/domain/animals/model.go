package animals

import "time"

// Sex of the animal.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Animal is a pedigree-bearing record. SireID/DamID are nullable references
// to other animals; the parent graph is assumed acyclic but pedigree
// resolution guards against cycles anyway.
type Animal struct {
	ID          string
	OwnerUserID string

	Name      string
	Sex       Sex
	BirthDate *time.Time
	Color     string
	Titles    string
	PhotoURL  string

	SireID *string
	DamID  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HealthRecord is a vet result attached to an animal (hips, eyes, etc).
type HealthRecord struct {
	ID       string
	AnimalID string

	Type   string
	Date   time.Time
	Result string
	Notes  string

	CreatedAt time.Time
}
