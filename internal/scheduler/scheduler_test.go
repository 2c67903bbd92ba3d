package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/callahq/matchengine/internal/adapters/mq/queue"
	"github.com/callahq/matchengine/internal/adapters/repository"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/internal/scheduler"
	"github.com/callahq/matchengine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestScheduler_Sweep(t *testing.T) {
	Convey("Given a repository with candidates and postings", t, func() {
		ctx := context.Background()
		repo := repository.NewMemory()
		repo.PutCandidate(model.CandidateProfile{ID: "c1"})
		repo.PutCandidate(model.CandidateProfile{ID: "c2"})
		repo.PutPosting(model.JobPosting{ID: "p1"})

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		s := scheduler.New(repo, repo, q, 6)

		Convey("When the scheduler starts", func() {
			So(s.Start(ctx), ShouldBeNil)
			defer s.Stop()

			Convey("Then the immediate sweep enqueues one task per owner", func() {
				deadline := time.After(2 * time.Second)
				for q.Len(ctx) < 3 {
					select {
					case <-deadline:
						t.Fatalf("sweep enqueued %d of 3 tasks", q.Len(ctx))
					case <-time.After(10 * time.Millisecond):
					}
				}

				seen := make(map[model.OwnerKind]int)
				tasks := q.Dequeue(ctx)
				for i := 0; i < 3; i++ {
					task := <-tasks
					seen[task.Kind]++
				}
				So(seen[model.KindCandidate], ShouldEqual, 2)
				So(seen[model.KindPosting], ShouldEqual, 1)
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
