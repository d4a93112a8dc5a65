package animals_test

import (
	"context"
	"testing"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/animals"
)

func newTestService(t *testing.T) *animals.Service {
	t.Helper()
	return animals.NewService(mem.NewAnimalsRepo())
}

func mustCreate(t *testing.T, svc *animals.Service, owner string, in animals.CreateInput) animals.Animal {
	t.Helper()
	a, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Name, err)
	}
	return a
}

func TestPedigree_NoParents(t *testing.T) {
	svc := newTestService(t)
	a := mustCreate(t, svc, "owner-1", animals.CreateInput{Name: "Hana", Sex: "female"})

	node, err := svc.Pedigree(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("pedigree: %v", err)
	}
	if node.Animal.ID != a.ID {
		t.Fatalf("root id = %s, want %s", node.Animal.ID, a.ID)
	}
	if node.Sire != nil || node.Dam != nil {
		t.Fatalf("expected empty branches, got sire=%v dam=%v", node.Sire, node.Dam)
	}
}

func TestPedigree_MissingRoot(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Pedigree(context.Background(), "nope"); err != animals.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPedigree_DepthBound(t *testing.T) {
	svc := newTestService(t)
	owner := "owner-1"

	// Four-generation sire chain; resolution must stop at grandparents.
	g3 := mustCreate(t, svc, owner, animals.CreateInput{Name: "G3", Sex: "male"})
	g2 := mustCreate(t, svc, owner, animals.CreateInput{Name: "G2", Sex: "male", SireID: g3.ID})
	g1 := mustCreate(t, svc, owner, animals.CreateInput{Name: "G1", Sex: "male", SireID: g2.ID})
	root := mustCreate(t, svc, owner, animals.CreateInput{Name: "Root", Sex: "male", SireID: g1.ID})

	node, err := svc.Pedigree(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("pedigree: %v", err)
	}
	if node.Sire == nil || node.Sire.Animal.ID != g1.ID {
		t.Fatalf("generation 1 not resolved")
	}
	if node.Sire.Sire == nil || node.Sire.Sire.Animal.ID != g2.ID {
		t.Fatalf("generation 2 not resolved")
	}
	if node.Sire.Sire.Sire != nil {
		t.Fatalf("generation 3 should be truncated")
	}
}

func TestPedigree_SharedGrandsire(t *testing.T) {
	svc := newTestService(t)
	owner := "owner-1"

	// Linebreeding: the same grandsire on both sides must resolve on both.
	g := mustCreate(t, svc, owner, animals.CreateInput{Name: "Grandsire", Sex: "male"})
	sire := mustCreate(t, svc, owner, animals.CreateInput{Name: "Sire", Sex: "male", SireID: g.ID})
	dam := mustCreate(t, svc, owner, animals.CreateInput{Name: "Dam", Sex: "female", SireID: g.ID})
	root := mustCreate(t, svc, owner, animals.CreateInput{Name: "Root", SireID: sire.ID, DamID: dam.ID})

	node, err := svc.Pedigree(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("pedigree: %v", err)
	}
	if node.Sire == nil || node.Sire.Sire == nil || node.Sire.Sire.Animal.ID != g.ID {
		t.Fatalf("grandsire missing on sire side")
	}
	if node.Dam == nil || node.Dam.Sire == nil || node.Dam.Sire.Animal.ID != g.ID {
		t.Fatalf("grandsire missing on dam side")
	}
}

func TestPedigree_CycleBecomesNullBranch(t *testing.T) {
	svc := newTestService(t)
	owner := "owner-1"
	ctx := context.Background()

	a := mustCreate(t, svc, owner, animals.CreateInput{Name: "A", Sex: "male"})
	b := mustCreate(t, svc, owner, animals.CreateInput{Name: "B", Sex: "male", SireID: a.ID})

	// Close the loop: A's sire becomes B.
	if _, err := svc.Update(ctx, a.ID, owner, animals.UpdateInput{SireID: &b.ID}); err != nil {
		t.Fatalf("update: %v", err)
	}

	node, err := svc.Pedigree(ctx, b.ID)
	if err != nil {
		t.Fatalf("pedigree: %v", err)
	}
	if node.Sire == nil || node.Sire.Animal.ID != a.ID {
		t.Fatalf("sire not resolved")
	}
	// B is already on the path, so the looping reference is dropped.
	if node.Sire.Sire != nil {
		t.Fatalf("cycle should truncate to a null branch")
	}
}

func TestAnimals_OwnerAuthorization(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "owner-1", animals.CreateInput{Name: "Kuma"})

	name := "Taken"
	if _, err := svc.Update(ctx, a.ID, "intruder", animals.UpdateInput{Name: &name}); err != animals.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, a.ID, "intruder"); err != animals.ErrForbidden {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
}

func TestAnimals_ParentMustExist(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "owner-1", animals.CreateInput{
		Name:   "Orphan",
		SireID: "ghost",
	})
	if err != animals.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
