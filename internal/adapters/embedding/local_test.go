package embedding_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/callahq/matchengine/internal/adapters/embedding"
	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalEmbedder(t *testing.T) {
	Convey("Given a local hashing embedder", t, func() {
		ctx := context.Background()
		emb := embedding.NewLocalEmbedder()

		Convey("When embedding the same text twice", func() {
			a, err1 := emb.Embed(ctx, "senior Go developer with PostgreSQL experience")
			b, err2 := emb.Embed(ctx, "senior Go developer with PostgreSQL experience")

			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)

			Convey("Then the vectors are identical", func() {
				So(b, ShouldResemble, a)
			})
		})

		Convey("When embedding non-trivial text", func() {
			vec, err := emb.Embed(ctx, "distributed systems engineer")
			So(err, ShouldBeNil)

			Convey("Then the vector has the configured dimensionality", func() {
				So(len(vec), ShouldEqual, emb.Dimensions())
			})

			Convey("Then the vector is L2-normalized", func() {
				var norm float64
				for _, v := range vec {
					norm += float64(v) * float64(v)
				}
				So(math.Sqrt(norm), ShouldAlmostEqual, 1.0, 1e-5)
			})
		})

		Convey("When texts share vocabulary", func() {
			query, _ := emb.Embed(ctx, "Go developer building backend services")
			near, _ := emb.Embed(ctx, "backend Go developer, builds services daily")
			far, _ := emb.Embed(ctx, "watercolor painting instructor, weekend pottery classes")

			Convey("Then overlapping text scores closer than unrelated text", func() {
				So(vectorstore.Cosine(query, near), ShouldBeGreaterThan, vectorstore.Cosine(query, far))
			})
		})

		Convey("When the text is empty or whitespace", func() {
			for _, text := range []string{"", "   ", "\n\t"} {
				_, err := emb.Embed(ctx, text)
				So(errors.Is(err, embedding.ErrEmptyText), ShouldBeTrue)
			}
		})

		Convey("When the text holds only stop words and short tokens", func() {
			vec, err := emb.Embed(ctx, "a an it")

			So(err, ShouldBeNil)

			Convey("Then a stable non-zero vector comes back so cosine stays defined", func() {
				So(vec[0], ShouldEqual, float32(1))
			})
		})

		Convey("When a custom dimensionality is configured", func() {
			small := embedding.NewLocalEmbedder(embedding.WithDimensions(32))
			vec, err := small.Embed(ctx, "Go developer")

			So(err, ShouldBeNil)
			So(len(vec), ShouldEqual, 32)
			So(small.Dimensions(), ShouldEqual, 32)
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := emb.Embed(canceled, "anything")
			So(err, ShouldNotBeNil)
		})
	})
}
