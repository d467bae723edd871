package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/chessdna/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func subjects(rs []types.Report) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Subject
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := NewMemoryStore()

		Convey("Then lookups miss", func() {
			_, err := s.Get(ctx, "alice")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(s.Count(ctx), ShouldEqual, 0)
			list, err := s.List(ctx, 10)
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)
		})

		Convey("Then invalid input is rejected", func() {
			So(errors.Is(s.Save(ctx, types.Report{}), ErrInvalidReport), ShouldBeTrue)
			_, err := s.List(ctx, 0)
			So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("When reports are saved", func() {
			So(s.Save(ctx, types.Report{Subject: "alice", Games: 1}), ShouldBeNil)
			So(s.Save(ctx, types.Report{Subject: "bob", Games: 2}), ShouldBeNil)
			So(s.Save(ctx, types.Report{Subject: "carol", Games: 3}), ShouldBeNil)

			Convey("Then List returns newest first", func() {
				list, err := s.List(ctx, 2)
				So(err, ShouldBeNil)
				So(subjects(list), ShouldResemble, []string{"carol", "bob"})
			})

			Convey("Then saving a subject again replaces it and makes it newest", func() {
				So(s.Save(ctx, types.Report{Subject: "alice", Games: 9}), ShouldBeNil)
				r, err := s.Get(ctx, "alice")
				So(err, ShouldBeNil)
				So(r.Games, ShouldEqual, 9)
				So(s.Count(ctx), ShouldEqual, 3)
				list, _ := s.List(ctx, 10)
				So(subjects(list), ShouldResemble, []string{"alice", "carol", "bob"})
			})
		})
	})

	Convey("Given a bounded store", t, func() {
		s := NewMemoryStore(WithMaxReports(2))
		for _, name := range []string{"a", "b", "c"} {
			So(s.Save(ctx, types.Report{Subject: name}), ShouldBeNil)
		}

		Convey("Then the least recently saved subject is evicted", func() {
			So(s.Count(ctx), ShouldEqual, 2)
			_, err := s.Get(ctx, "a")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given concurrent writers and readers", t, func() {
		s := NewMemoryStore()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_ = s.Save(ctx, types.Report{Subject: fmt.Sprintf("p%d", i%5)})
			}(i)
			go func() {
				defer wg.Done()
				_, _ = s.List(ctx, 3)
			}()
		}
		wg.Wait()

		So(s.Count(ctx), ShouldEqual, 5)
	})
}
