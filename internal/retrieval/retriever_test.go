package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/callahq/matchengine/internal/adapters/embedding"
	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/internal/retrieval"
	. "github.com/smartystreets/goconvey/convey"
)

// seed indexes text for an owner the way the write path would.
func seed(ctx context.Context, t *testing.T, emb embedding.Embedder, store vectorstore.Store, kind model.OwnerKind, ownerID, text string) {
	t.Helper()
	vec, err := emb.Embed(ctx, text)
	if err != nil {
		t.Fatalf("embed %s: %v", ownerID, err)
	}
	doc := vectorstore.Document{
		ID:     model.DocumentID(kind, ownerID),
		Kind:   kind,
		Owner:  ownerID,
		Vector: vec,
		Text:   text,
	}
	if err := store.Upsert(ctx, doc); err != nil {
		t.Fatalf("upsert %s: %v", ownerID, err)
	}
}

type failingQueryStore struct {
	vectorstore.Store
}

func (failingQueryStore) Query(context.Context, []float32, int) ([]vectorstore.Hit, error) {
	return nil, errors.New("backend down")
}

func TestRetriever_Search(t *testing.T) {
	Convey("Given a store seeded with CVs and offers", t, func() {
		ctx := context.Background()
		emb := embedding.NewLocalEmbedder()
		store := vectorstore.NewMemStore()
		retriever := retrieval.New(emb, store, retrieval.WithMaxTopK(10))

		seed(ctx, t, emb, store, model.KindCandidate, "c1", "senior Go developer building backend services with PostgreSQL")
		seed(ctx, t, emb, store, model.KindCandidate, "c2", "frontend developer, React and TypeScript, design systems")
		seed(ctx, t, emb, store, model.KindCandidate, "c3", "Go developer, microservices, PostgreSQL, Kubernetes")
		seed(ctx, t, emb, store, model.KindPosting, "p1", "hiring a Go developer for backend services and PostgreSQL work")

		Convey("When searching for candidates", func() {
			matches, err := retriever.Search(ctx, "Go developer with PostgreSQL and backend services experience", 10, model.KindCandidate)

			So(err, ShouldBeNil)

			Convey("Then only CV documents come back", func() {
				So(len(matches), ShouldEqual, 3)
				for _, m := range matches {
					So(m.Kind, ShouldEqual, model.KindCandidate)
				}
			})

			Convey("Then results are ordered by descending similarity", func() {
				for i := 1; i < len(matches); i++ {
					So(matches[i-1].Similarity, ShouldBeGreaterThanOrEqualTo, matches[i].Similarity)
				}
			})

			Convey("Then the overlapping CVs outrank the unrelated one", func() {
				So(matches[len(matches)-1].OwnerID, ShouldEqual, "c2")
			})

			Convey("Then similarities stay within cosine bounds", func() {
				for _, m := range matches {
					So(m.Similarity, ShouldBeLessThanOrEqualTo, 1)
					So(m.Similarity, ShouldBeGreaterThanOrEqualTo, -1)
				}
			})
		})

		Convey("When topK is smaller than the candidate pool", func() {
			matches, err := retriever.Search(ctx, "Go developer", 2, model.KindCandidate)

			So(err, ShouldBeNil)
			So(len(matches), ShouldEqual, 2)
		})

		Convey("When topK exceeds the configured maximum", func() {
			capped := retrieval.New(emb, store, retrieval.WithMaxTopK(2))
			matches, err := capped.Search(ctx, "Go developer", 500, model.KindCandidate)

			So(err, ShouldBeNil)
			So(len(matches), ShouldBeLessThanOrEqualTo, 2)
		})

		Convey("When searching without a kind filter", func() {
			matches, err := retriever.Search(ctx, "Go developer backend", 10, "")

			So(err, ShouldBeNil)

			Convey("Then both CVs and offers come back", func() {
				kinds := make(map[model.OwnerKind]bool)
				for _, m := range matches {
					kinds[m.Kind] = true
				}
				So(kinds[model.KindCandidate], ShouldBeTrue)
				So(kinds[model.KindPosting], ShouldBeTrue)
			})
		})

		Convey("When the query text is empty", func() {
			for _, q := range []string{"", "   "} {
				_, err := retriever.Search(ctx, q, 5, model.KindCandidate)
				So(errors.Is(err, retrieval.ErrInvalidQuery), ShouldBeTrue)
			}
		})

		Convey("When topK is not positive", func() {
			for _, k := range []int{0, -3} {
				_, err := retriever.Search(ctx, "Go developer", k, model.KindCandidate)
				So(errors.Is(err, retrieval.ErrInvalidQuery), ShouldBeTrue)
			}
		})

		Convey("When the store backend fails", func() {
			broken := retrieval.New(emb, failingQueryStore{})
			_, err := broken.Search(ctx, "Go developer", 5, model.KindCandidate)

			So(errors.Is(err, retrieval.ErrUnavailable), ShouldBeTrue)
		})

		Convey("When the index is empty", func() {
			empty := retrieval.New(emb, vectorstore.NewMemStore())
			matches, err := empty.Search(ctx, "Go developer", 5, model.KindCandidate)

			So(err, ShouldBeNil)
			So(matches, ShouldBeEmpty)
		})

		Convey("When a candidate's document is replaced after a résumé edit", func() {
			query := "Go developer with PostgreSQL and backend services experience"
			before, err := retriever.Search(ctx, query, 10, model.KindCandidate)
			So(err, ShouldBeNil)

			var beforeSim float64
			for _, m := range before {
				if m.OwnerID == "c1" {
					beforeSim = m.Similarity
				}
			}

			seed(ctx, t, emb, store, model.KindCandidate, "c1", "pastry chef specializing in laminated doughs and viennoiserie")

			after, err := retriever.Search(ctx, query, 10, model.KindCandidate)
			So(err, ShouldBeNil)

			Convey("Then the similarity against the same query changes materially", func() {
				var afterSim float64
				found := false
				for _, m := range after {
					if m.OwnerID == "c1" {
						afterSim = m.Similarity
						found = true
					}
				}
				So(found, ShouldBeTrue)
				So(afterSim, ShouldNotAlmostEqual, beforeSim, 0.05)
				So(afterSim, ShouldBeLessThan, beforeSim)
			})
		})

		Convey("When the same query runs twice against unchanged state", func() {
			first, err1 := retriever.Search(ctx, "Go developer backend", 10, model.KindCandidate)
			second, err2 := retriever.Search(ctx, "Go developer backend", 10, model.KindCandidate)

			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(second, ShouldResemble, first)
		})
	})
}
