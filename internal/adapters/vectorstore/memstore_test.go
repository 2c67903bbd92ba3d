package vectorstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	"github.com/callahq/matchengine/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func doc(id string, kind model.OwnerKind, vec ...float32) vectorstore.Document {
	return vectorstore.Document{ID: id, Kind: kind, Owner: id, Vector: vec}
}

func TestCosine(t *testing.T) {
	Convey("Given vector pairs", t, func() {
		Convey("When vectors point the same way", func() {
			So(vectorstore.Cosine([]float32{1, 0}, []float32{2, 0}), ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("When vectors are orthogonal", func() {
			So(vectorstore.Cosine([]float32{1, 0}, []float32{0, 1}), ShouldAlmostEqual, 0.0, 1e-9)
		})

		Convey("When vectors oppose", func() {
			So(vectorstore.Cosine([]float32{1, 0}, []float32{-1, 0}), ShouldAlmostEqual, -1.0, 1e-9)
		})

		Convey("When dimensions differ or a norm is zero", func() {
			So(vectorstore.Cosine([]float32{1, 0}, []float32{1}), ShouldEqual, 0)
			So(vectorstore.Cosine([]float32{0, 0}, []float32{1, 0}), ShouldEqual, 0)
		})
	})
}

func TestMemStore(t *testing.T) {
	Convey("Given an in-memory vector store", t, func() {
		ctx := context.Background()
		store := vectorstore.NewMemStore()

		Convey("When documents at varying similarity are upserted", func() {
			So(store.Upsert(ctx, doc("cv-a", model.KindCandidate, 1, 0)), ShouldBeNil)
			So(store.Upsert(ctx, doc("cv-b", model.KindCandidate, 0.8, 0.6)), ShouldBeNil)
			So(store.Upsert(ctx, doc("offer-c", model.KindPosting, 0, 1)), ShouldBeNil)

			Convey("Then a query ranks by descending cosine similarity", func() {
				hits, err := store.Query(ctx, []float32{1, 0}, 10)

				So(err, ShouldBeNil)
				So(len(hits), ShouldEqual, 3)
				So(hits[0].ID, ShouldEqual, "cv-a")
				So(hits[1].ID, ShouldEqual, "cv-b")
				So(hits[2].ID, ShouldEqual, "offer-c")
				So(hits[0].Similarity, ShouldBeGreaterThanOrEqualTo, hits[1].Similarity)
				So(hits[1].Similarity, ShouldBeGreaterThanOrEqualTo, hits[2].Similarity)
			})

			Convey("Then topK truncates the result", func() {
				hits, err := store.Query(ctx, []float32{1, 0}, 2)

				So(err, ShouldBeNil)
				So(len(hits), ShouldEqual, 2)
				So(hits[0].ID, ShouldEqual, "cv-a")
			})

			Convey("Then ties break on ascending document id", func() {
				So(store.Upsert(ctx, doc("cv-z", model.KindCandidate, 1, 0)), ShouldBeNil)
				So(store.Upsert(ctx, doc("cv-0", model.KindCandidate, 1, 0)), ShouldBeNil)

				hits, err := store.Query(ctx, []float32{1, 0}, 3)
				So(err, ShouldBeNil)
				So(hits[0].ID, ShouldEqual, "cv-0")
				So(hits[1].ID, ShouldEqual, "cv-a")
				So(hits[2].ID, ShouldEqual, "cv-z")
			})
		})

		Convey("When the same id is upserted twice", func() {
			So(store.Upsert(ctx, doc("cv-a", model.KindCandidate, 1, 0)), ShouldBeNil)
			So(store.Upsert(ctx, doc("cv-a", model.KindCandidate, 0, 1)), ShouldBeNil)

			Convey("Then the second write replaces the first without duplicating", func() {
				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				stored, ok := store.Get("cv-a")
				So(ok, ShouldBeTrue)
				So(stored.Vector, ShouldResemble, []float32{0, 1})
			})
		})

		Convey("When query arguments are invalid", func() {
			_, err := store.Query(ctx, []float32{1, 0}, 0)
			So(errors.Is(err, vectorstore.ErrInvalidLimit), ShouldBeTrue)

			_, err = store.Query(ctx, nil, 5)
			So(errors.Is(err, vectorstore.ErrInvalidVector), ShouldBeTrue)
		})

		Convey("When an empty vector is upserted", func() {
			err := store.Upsert(ctx, vectorstore.Document{ID: "cv-x"})
			So(errors.Is(err, vectorstore.ErrInvalidVector), ShouldBeTrue)
		})

		Convey("When a document is deleted", func() {
			So(store.Upsert(ctx, doc("cv-a", model.KindCandidate, 1, 0)), ShouldBeNil)
			So(store.Delete(ctx, "cv-a"), ShouldBeNil)

			n, err := store.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)

			Convey("And deleting an absent id is a no-op", func() {
				So(store.Delete(ctx, "cv-missing"), ShouldBeNil)
			})
		})

		Convey("When the store is queried empty", func() {
			hits, err := store.Query(ctx, []float32{1, 0}, 5)
			So(err, ShouldBeNil)
			So(hits, ShouldBeEmpty)
		})

		Convey("When many documents compete for a small topK", func() {
			for i := 0; i < 50; i++ {
				v := float32(i) / 50
				So(store.Upsert(ctx, doc(fmt.Sprintf("cv-%03d", i), model.KindCandidate, v, 1-v)), ShouldBeNil)
			}

			hits, err := store.Query(ctx, []float32{1, 0}, 5)
			So(err, ShouldBeNil)
			So(len(hits), ShouldEqual, 5)
			So(hits[0].ID, ShouldEqual, "cv-049")
		})
	})
}
