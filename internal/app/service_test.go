package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/chessdna/internal/app"
	"github.com/okian/chessdna/internal/adapters/repository"
	"github.com/okian/chessdna/internal/domain/catalogue"
	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/ranking"
	"github.com/okian/chessdna/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// games returns n games with the given centipawn loss; the first blunders
// games contain one blunder each.
func games(n int, acpl float64, blunders int) []model.GameStat {
	out := make([]model.GameStat, n)
	for i := range out {
		out[i] = model.GameStat{CentipawnLoss: model.CPL(acpl), Outcome: model.OutcomeWin}
		if i < blunders {
			out[i].Blunders = 1
		}
	}
	return out
}

func newService(opts ...service.Option) *service.Service {
	svc, err := service.New(opts...)
	So(err, ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := newService()

		Convey("Then it uses the built-in catalogue", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["catalogueSize"], ShouldEqual, 7)
			So(stats["standardization"], ShouldEqual, "catalogue")
			So(svc.Catalogue(context.Background()), ShouldHaveLength, 7)
		})
	})

	Convey("Given an empty catalogue", t, func() {
		empty, err := catalogue.New()
		So(err, ShouldBeNil)

		_, err = service.New(service.WithCatalogue(empty))

		Convey("Then construction fails", func() {
			So(errors.Is(err, ranking.ErrEmptyCatalogue), ShouldBeTrue)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService(service.WithWorkerCount(2), service.WithQueueSize(10))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting it twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is started with its workers", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
			})

			Convey("And stopping it marks it stopped", func() {
				So(svc.Stop(ctx), ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_StopDrainsAfterCancel(t *testing.T) {
	Convey("Given a service started on a context that is later cancelled", t, func() {
		svc := newService(service.WithWorkerCount(1), service.WithQueueSize(10))
		startCtx, cancelStart := context.WithCancel(context.Background())
		So(svc.Start(startCtx), ShouldBeNil)
		cancelStart()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, name := range []string{"a", "b", "c"} {
			_, _, err := svc.Submit(ctx, model.AnalysisJob{JobID: "job-" + name, Subject: name, Games: games(3, 30, 0)})
			So(err, ShouldBeNil)
		}

		Convey("When stopping it", func() {
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then every queued job was analyzed", func() {
				for _, name := range []string{"a", "b", "c"} {
					r, err := svc.Report(ctx, name)
					So(err, ShouldBeNil)
					So(r.JobID, ShouldEqual, "job-"+name)
				}
			})
		})
	})
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc := newService()

		Convey("When analysing ten games with two blunders", func() {
			rep, err := svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: "  alice ", Games: games(10, 40, 2)})

			Convey("Then the report carries metrics, matches and insights", func() {
				So(err, ShouldBeNil)
				So(rep.JobID, ShouldNotBeEmpty)
				So(rep.Subject, ShouldEqual, "alice")
				So(rep.Games, ShouldEqual, 10)
				So(rep.Metrics[model.BlunderRate], ShouldEqual, 20.0)
				So(rep.Matches, ShouldHaveLength, ranking.DefaultReportSize)
				So(rep.TopMatch, ShouldNotBeNil)
				So(rep.TopMatch.Name, ShouldEqual, rep.Matches[0].Name)
				So(rep.Compatibility, ShouldBeBetweenOrEqual, -1.0, 1.0)
				So(rep.AnalyzedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then the report is stored and the subject is comparable", func() {
				So(err, ShouldBeNil)
				stored, err := svc.Report(ctx, "alice")
				So(err, ShouldBeNil)
				So(stored.JobID, ShouldEqual, rep.JobID)

				list, err := svc.Reports(ctx, 10)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)

				cmp, err := svc.Compare(ctx, "alice", "alice")
				So(err, ShouldBeNil)
				So(cmp.Similarity, ShouldAlmostEqual, 1.0, 1e-9)
				So(cmp.MatchPercent, ShouldAlmostEqual, 100.0, 1e-6)
			})
		})

		Convey("When a job asks for two matches", func() {
			rep, err := svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: "bob", Games: games(3, 30, 0), TopN: 2})
			So(err, ShouldBeNil)
			So(rep.Matches, ShouldHaveLength, 2)
		})

		Convey("When the job is invalid", func() {
			_, err := svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: " ", Games: games(1, 30, 0)})
			So(errors.Is(err, service.ErrInvalidJob), ShouldBeTrue)

			_, err = svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: "carol"})
			So(errors.Is(err, features.ErrEmptyInput), ShouldBeTrue)

			bad := games(1, 30, 0)
			bad[0].Blunders = -1
			_, err = svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: "carol", Games: bad})
			So(errors.Is(err, model.ErrInvalidMetric), ShouldBeTrue)

			_, err = svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: "carol", Games: games(1, 30, 0), TopN: 500})
			So(errors.Is(err, service.ErrTopNTooLarge), ShouldBeTrue)

			_, err = svc.Report(ctx, "carol")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Analyze(cctx, model.AnalysisJob{Subject: "dave", Games: games(1, 30, 0)})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestService_RankMetrics(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc := newService(service.WithMaxTopN(5))

		Convey("When ranking Tal's own metrics", func() {
			tal, err := catalogue.Default().Get("Mikhail Tal")
			So(err, ShouldBeNil)
			matches, err := svc.RankMetrics(ctx, tal.Metrics, 0)

			Convey("Then Tal comes first with the default number of matches", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, ranking.DefaultTopN)
				So(matches[0].Name, ShouldEqual, "Mikhail Tal")
				So(matches[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When top_n is out of range", func() {
			_, err := svc.RankMetrics(ctx, model.MetricSet{}, 6)
			So(errors.Is(err, service.ErrTopNTooLarge), ShouldBeTrue)

			_, err = svc.RankMetrics(ctx, model.MetricSet{}, -1)
			So(errors.Is(err, ranking.ErrInvalidTopN), ShouldBeTrue)
		})
	})
}

func TestService_Comparative(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with three subjects", t, func() {
		svc := newService(service.WithGroupMode(comparative.ModeRoundRobin))
		So(svc.AddSubject(ctx, "a", model.MetricSet{model.Aggressiveness: 90, model.Solidity: 30}), ShouldBeNil)
		So(svc.AddSubject(ctx, "b", model.MetricSet{model.Aggressiveness: 40, model.Solidity: 90}), ShouldBeNil)
		So(svc.AddSubject(ctx, "c", model.MetricSet{model.Aggressiveness: 60, model.Solidity: 60}), ShouldBeNil)

		Convey("When grouping with the default mode", func() {
			g, err := svc.Group(ctx, 2, "")
			So(err, ShouldBeNil)
			So(g.Mode, ShouldEqual, comparative.ModeRoundRobin)
			So(g.Groups, ShouldResemble, [][]string{{"a", "c"}, {"b"}})
		})

		Convey("When grouping with k-means", func() {
			g, err := svc.Group(ctx, 2, "kmeans")
			So(err, ShouldBeNil)
			So(g.Mode, ShouldEqual, comparative.ModeKMeans)
			So(g.Subjects, ShouldEqual, 3)
		})

		Convey("When grouping with an unknown mode", func() {
			_, err := svc.Group(ctx, 2, "spectral")
			So(errors.Is(err, comparative.ErrUnknownGroupMode), ShouldBeTrue)
		})

		Convey("When comparing an unknown subject", func() {
			_, err := svc.Compare(ctx, "a", "zed")
			So(errors.Is(err, comparative.ErrUnknownSubject), ShouldBeTrue)
		})

		Convey("When summarizing trends", func() {
			tr := svc.Trends(ctx)
			So(tr[model.Aggressiveness].Mean, ShouldAlmostEqual, 190.0/3, 1e-9)
			So(tr[model.Aggressiveness].Min, ShouldEqual, 40.0)
			So(tr[model.Aggressiveness].Max, ShouldEqual, 90.0)
			So(tr[model.Aggressiveness].Count, ShouldEqual, 3)
		})
	})
}

func TestService_ComparativePoolBound(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service sized for two reports", t, func() {
		svc := newService(service.WithReportStoreSize(2))
		for _, name := range []string{"a", "b", "c"} {
			So(svc.AddSubject(ctx, name, model.MetricSet{model.Aggressiveness: 50, model.Solidity: 60}), ShouldBeNil)
		}

		Convey("Then the comparative pool keeps only the latest two subjects", func() {
			So(svc.GetStats()["subjects"], ShouldEqual, 2)
			_, err := svc.Compare(ctx, "a", "c")
			So(errors.Is(err, comparative.ErrUnknownSubject), ShouldBeTrue)
			_, err = svc.Compare(ctx, "b", "c")
			So(err, ShouldBeNil)
		})
	})
}

func TestService_Submit(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := newService()
		_, _, err := svc.Submit(context.Background(), model.AnalysisJob{Subject: "a", Games: games(1, 30, 0)})
		So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
	})

	Convey("Given a started service", t, func() {
		svc := newService(service.WithWorkerCount(1))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When submitting a job without an id", func() {
			id, dup, err := svc.Submit(ctx, model.AnalysisJob{Subject: "a", Games: games(2, 30, 0)})

			Convey("Then an id is assigned", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(id, ShouldNotBeEmpty)
			})
		})

		Convey("When submitting the same id twice", func() {
			job := model.AnalysisJob{JobID: "job-1", Subject: "a", Games: games(2, 30, 0)}
			_, dup1, err1 := svc.Submit(ctx, job)
			_, dup2, err2 := svc.Submit(ctx, job)

			Convey("Then the second is a duplicate", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(dup1, ShouldBeFalse)
				So(dup2, ShouldBeTrue)
			})
		})

		Convey("When submitting an invalid job", func() {
			_, _, err := svc.Submit(ctx, model.AnalysisJob{Subject: "a"})
			So(errors.Is(err, service.ErrInvalidJob), ShouldBeTrue)
		})
	})
}
