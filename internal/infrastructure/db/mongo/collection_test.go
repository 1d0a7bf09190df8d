package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/onestopshop/storefront/internal/core/domain"
)

func newMockT(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func productsNS(mt *mtest.T) string {
	return mt.DB.Name() + "." + collectionProducts
}

func TestProductRepository_ListOnlyLive(t *testing.T) {
	mt := newMockT(t)

	mt.Run("filters deleted documents", func(mt *mtest.T) {
		created := time.Date(2024, 5, 7, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "p1"}, {Key: "name", Value: "Agua"}, {Key: "deleted", Value: false}, {Key: "createdAt", Value: created}},
		))

		items, err := NewProductRepository(mt.DB).List(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ID != "p1" || !items[0].CreatedAt.Equal(created) {
			mt.Fatalf("unexpected items %+v", items)
		}

		ev := mt.GetStartedEvent()
		if ev == nil || ev.CommandName != "find" {
			mt.Fatalf("expected a find command, got %+v", ev)
		}
		deleted, err := ev.Command.LookupErr("filter", "deleted")
		if err != nil || deleted.Type != bsontype.Boolean || deleted.Boolean() {
			mt.Fatalf("expected filter deleted:false, got %v (%v)", deleted, err)
		}
		if _, err := ev.Command.LookupErr("sort", "createdAt"); err != nil {
			mt.Fatalf("expected oldest-first sort: %v", err)
		}
	})
}

func TestProductRepository_CountOnlyLive(t *testing.T) {
	mt := newMockT(t)

	mt.Run("counts through a deleted:false match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		n, err := NewProductRepository(mt.DB).Count(context.Background())
		if err != nil || n != 3 {
			mt.Fatalf("expected 3, got %d (%v)", n, err)
		}

		ev := mt.GetStartedEvent()
		deleted, err := ev.Command.LookupErr("pipeline", "0", "$match", "deleted")
		if err != nil || deleted.Boolean() {
			mt.Fatalf("expected $match deleted:false, got %v (%v)", deleted, err)
		}
	})
}

func TestProductRepository_SoftDeleteAndRestore(t *testing.T) {
	mt := newMockT(t)
	at := time.Date(2024, 5, 7, 9, 3, 4, 0, time.UTC)
	matched := mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1})

	mt.Run("soft delete flags and stamps", func(mt *mtest.T) {
		mt.AddMockResponses(matched)

		if err := NewProductRepository(mt.DB).SoftDelete(context.Background(), "p1", at); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		set := updateSet(mt)
		if !set.Lookup("deleted").Boolean() {
			mt.Fatalf("expected deleted:true in %v", set)
		}
		if !set.Lookup("deletedAt").Time().Equal(at) || !set.Lookup("updatedAt").Time().Equal(at) {
			mt.Fatalf("expected deletedAt and updatedAt stamped, got %v", set)
		}
		if _, err := set.LookupErr("createdAt"); err == nil {
			mt.Fatalf("createdAt must not be touched")
		}
	})

	mt.Run("restore clears deletedAt", func(mt *mtest.T) {
		mt.AddMockResponses(matched)

		if err := NewProductRepository(mt.DB).Restore(context.Background(), "p1", at); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		set := updateSet(mt)
		if set.Lookup("deleted").Boolean() {
			mt.Fatalf("expected deleted:false in %v", set)
		}
		if set.Lookup("deletedAt").Type != bsontype.Null {
			mt.Fatalf("expected deletedAt:null, got %v", set.Lookup("deletedAt"))
		}
		if !set.Lookup("updatedAt").Time().Equal(at) {
			mt.Fatalf("expected updatedAt stamped, got %v", set)
		}
	})

	mt.Run("unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewProductRepository(mt.DB).Restore(context.Background(), "missing", at)
		if !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestProductRepository_UpdateStampsEvenWhenEmpty(t *testing.T) {
	mt := newMockT(t)
	at := time.Date(2024, 5, 7, 10, 0, 0, 0, time.UTC)

	mt.Run("empty patch", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		r := NewProductRepository(mt.DB)
		if err := r.update(context.Background(), "p1", nil, at); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		set := updateSet(mt)
		if !set.Lookup("updatedAt").Time().Equal(at) {
			mt.Fatalf("expected updatedAt stamped, got %v", set)
		}
	})
}

func TestIdentityRepository_Delete(t *testing.T) {
	mt := newMockT(t)

	mt.Run("deletes by uid", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := NewIdentityRepository(mt.DB).Delete(context.Background(), "uid-1"); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		ev := mt.GetStartedEvent()
		if ev == nil || ev.CommandName != "delete" {
			mt.Fatalf("expected a delete command, got %+v", ev)
		}
		id, err := ev.Command.LookupErr("deletes", "0", "q", "_id")
		if err != nil || id.StringValue() != "uid-1" {
			mt.Fatalf("expected _id filter uid-1, got %v (%v)", id, err)
		}
	})
}

// updateSet returns the $set document of the recorded update command.
func updateSet(mt *mtest.T) bson.Raw {
	mt.Helper()
	ev := mt.GetStartedEvent()
	if ev == nil || ev.CommandName != "update" {
		mt.Fatalf("expected an update command, got %+v", ev)
	}
	v, err := ev.Command.LookupErr("updates", "0", "u", "$set")
	if err != nil {
		mt.Fatalf("no $set in %v: %v", ev.Command, err)
	}
	return v.Document()
}
