package litters_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/animals"
	"akita-connect/internal/domain/litters"
	"akita-connect/internal/domain/notifications"
	"akita-connect/internal/domain/profiles"
)

type litterFixture struct {
	svc       *litters.Service
	notifRepo notifications.Repository

	breederID   string
	moderatorID string
	sire        animals.Animal
	dam         animals.Animal
}

func newLitterFixture(t *testing.T) *litterFixture {
	t.Helper()
	ctx := context.Background()

	profilesSvc := profiles.NewService(mem.NewProfilesRepo())
	animalsSvc := animals.NewService(mem.NewAnimalsRepo())
	notifRepo := mem.NewNotificationsRepo()
	notifier := notifications.NewService(notifRepo, zerolog.Nop())
	svc := litters.NewService(mem.NewLittersRepo(), animalsSvc, profilesSvc, notifier)

	f := &litterFixture{
		svc:         svc,
		notifRepo:   notifRepo,
		breederID:   "breeder-1",
		moderatorID: "moderator-1",
	}

	if _, err := profilesSvc.Create(ctx, f.breederID, profiles.CreateInput{
		DisplayName: "Kensha Kennel",
		Role:        profiles.RoleBreeder,
	}); err != nil {
		t.Fatalf("create breeder profile: %v", err)
	}
	if _, err := profilesSvc.Create(ctx, f.moderatorID, profiles.CreateInput{
		DisplayName: "Mod",
		Role:        profiles.RoleModerator,
	}); err != nil {
		t.Fatalf("create moderator profile: %v", err)
	}
	if _, err := profilesSvc.Create(ctx, "plain-user", profiles.CreateInput{
		DisplayName: "Plain",
		Role:        profiles.RoleUser,
	}); err != nil {
		t.Fatalf("create user profile: %v", err)
	}

	var err error
	f.sire, err = animalsSvc.Create(ctx, f.breederID, animals.CreateInput{Name: "Taro", Sex: "male"})
	if err != nil {
		t.Fatalf("create sire: %v", err)
	}
	f.dam, err = animalsSvc.Create(ctx, f.breederID, animals.CreateInput{Name: "Yuki", Sex: "female"})
	if err != nil {
		t.Fatalf("create dam: %v", err)
	}

	return f
}

func (f *litterFixture) createLitter(t *testing.T) litters.Litter {
	t.Helper()
	l, err := f.svc.Create(context.Background(), f.breederID, litters.CreateInput{
		SireID:      f.sire.ID,
		DamID:       f.dam.ID,
		Description: "spring litter",
	})
	if err != nil {
		t.Fatalf("create litter: %v", err)
	}
	return l
}

func TestLitters_CreateStartsPending(t *testing.T) {
	f := newLitterFixture(t)
	l := f.createLitter(t)

	if l.ApprovalStatus != litters.ApprovalPending {
		t.Fatalf("approval = %s, want pending", l.ApprovalStatus)
	}
	if l.ListingStatus != litters.ListingUnlisted {
		t.Fatalf("listing = %s, want unlisted", l.ListingStatus)
	}
}

func TestLitters_CreateRequiresBreederRole(t *testing.T) {
	f := newLitterFixture(t)

	_, err := f.svc.Create(context.Background(), "plain-user", litters.CreateInput{
		SireID: f.sire.ID,
		DamID:  f.dam.ID,
	})
	if err != litters.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLitters_ApproveIsTerminal(t *testing.T) {
	f := newLitterFixture(t)
	ctx := context.Background()
	l := f.createLitter(t)

	if _, err := f.svc.Approve(ctx, l.ID, f.moderatorID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.Approve(ctx, l.ID, f.moderatorID); err != litters.ErrBadState {
		t.Fatalf("second approve: expected ErrBadState, got %v", err)
	}
	if _, err := f.svc.Reject(ctx, l.ID, f.moderatorID, "too late"); err != litters.ErrBadState {
		t.Fatalf("reject after approve: expected ErrBadState, got %v", err)
	}
}

func TestLitters_ModerationRequiresModerator(t *testing.T) {
	f := newLitterFixture(t)
	l := f.createLitter(t)

	if _, err := f.svc.Approve(context.Background(), l.ID, f.breederID); err != litters.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLitters_ApprovalNotificationNamesParents(t *testing.T) {
	f := newLitterFixture(t)
	ctx := context.Background()
	l := f.createLitter(t)

	if _, err := f.svc.Approve(ctx, l.ID, f.moderatorID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	ns, err := f.notifRepo.ListByUser(ctx, f.breederID)
	if err != nil || len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d (%v)", len(ns), err)
	}
	if ns[0].Type != notifications.TypeLitterApproved {
		t.Fatalf("type = %s", ns[0].Type)
	}
	if !strings.Contains(ns[0].Message, "Taro") || !strings.Contains(ns[0].Message, "Yuki") {
		t.Fatalf("message does not name the parents: %q", ns[0].Message)
	}
}

func TestLitters_RejectedNeverInMarketplace(t *testing.T) {
	f := newLitterFixture(t)
	ctx := context.Background()
	l := f.createLitter(t)

	if _, err := f.svc.Reject(ctx, l.ID, f.moderatorID, "incomplete health records"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// The breeder can still flip the listing flag, but rejection wins.
	listed := string(litters.ListingListed)
	if _, err := f.svc.Update(ctx, l.ID, f.breederID, litters.UpdateInput{ListingStatus: &listed}); err != nil {
		t.Fatalf("update listing: %v", err)
	}

	items, err := f.svc.Marketplace(ctx)
	if err != nil {
		t.Fatalf("marketplace: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected litter leaked into marketplace")
	}
}

func TestLitters_MarketplaceRequiresApprovedAndListed(t *testing.T) {
	f := newLitterFixture(t)
	ctx := context.Background()
	l := f.createLitter(t)

	if _, err := f.svc.Approve(ctx, l.ID, f.moderatorID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	items, err := f.svc.Marketplace(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("approved but unlisted litter should stay hidden, got %d (%v)", len(items), err)
	}

	listed := string(litters.ListingListed)
	if _, err := f.svc.Update(ctx, l.ID, f.breederID, litters.UpdateInput{ListingStatus: &listed}); err != nil {
		t.Fatalf("update listing: %v", err)
	}

	items, err = f.svc.Marketplace(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 marketplace litter, got %d (%v)", len(items), err)
	}
}

func TestLitters_WeightSeriesStaysSorted(t *testing.T) {
	f := newLitterFixture(t)
	ctx := context.Background()
	l := f.createLitter(t)

	l, err := f.svc.AddPuppy(ctx, l.ID, f.breederID, litters.PuppyInput{Name: "Ichi", Sex: "male"})
	if err != nil {
		t.Fatalf("add puppy: %v", err)
	}
	pup := l.Puppies[0]

	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	// Out-of-order inserts.
	for _, d := range []int{10, 3, 7} {
		if l, err = f.svc.AddWeight(ctx, l.ID, pup.ID, f.breederID, day(d), float64(d)); err != nil {
			t.Fatalf("add weight day %d: %v", d, err)
		}
	}

	got := l.Puppies[0].Weights
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("weights not sorted: %v", got)
		}
	}
}

func TestLitters_PendingQueueIsModeratorOnly(t *testing.T) {
	f := newLitterFixture(t)
	ctx := context.Background()
	f.createLitter(t)

	if _, err := f.svc.ListPending(ctx, f.breederID); err != litters.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	items, err := f.svc.ListPending(ctx, f.moderatorID)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 pending litter, got %d (%v)", len(items), err)
	}
}
