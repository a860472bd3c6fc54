package watch

import (
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/relay"
	"github.com/dramasan-cli/dramasan/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func progressiveEpisode() *source.Episode {
	return &source.Episode{
		ID:   "ep1",
		Name: "EP 1",
		Mirrors: []*source.Mirror{{
			Domain:  "cdn.example.com",
			Default: true,
			Variants: []*source.MediaSource{
				{URL: "https://cdn.example.com/ep1.mp4", Quality: 1080},
			},
		}},
	}
}

func segmentedEpisode() *source.Episode {
	episode := progressiveEpisode()
	episode.Mirrors[0].Variants[0].URL = "https://cdn.example.com/ep1.m3u8"
	return episode
}

type fakeSession struct {
	toggles int32
	done    chan struct{}
}

func (f *fakeSession) TogglePause() error {
	atomic.AddInt32(&f.toggles, 1)
	return nil
}

func (f *fakeSession) Done() <-chan struct{} {
	return f.done
}

// scriptedPrompt returns a controlPrompt whose menu is driven by channels
// instead of the terminal.
func scriptedPrompt() (prompt *controlPrompt, asked <-chan struct{}, answers chan<- string) {
	askedCh := make(chan struct{}, 8)
	answerCh := make(chan string)

	prompt = newControlPrompt()
	prompt.asker = func(string, []string) (string, error) {
		askedCh <- struct{}{}
		return <-answerCh, nil
	}
	return prompt, askedCh, answerCh
}

func TestEnsureRelay(t *testing.T) {
	Convey("Given a watcher", t, func() {
		w := &watcher{}

		Convey("Segmented episodes play direct, no relay is involved", func() {
			base, err := w.ensureRelay(segmentedEpisode())
			So(err, ShouldBeNil)
			So(base, ShouldBeEmpty)
		})

		Convey("A configured public relay is used as-is", func() {
			viper.Set(key.RelayPublicURL, "https://relay.example.com")
			defer viper.Set(key.RelayPublicURL, "")

			base, err := w.ensureRelay(progressiveEpisode())
			So(err, ShouldBeNil)
			So(base, ShouldEqual, "https://relay.example.com")
		})

		Convey("Otherwise playing a progressive episode starts the embedded relay", func() {
			viper.Set(key.RelayPublicURL, "")
			viper.Set(key.RelayAddress, "127.0.0.1:0")
			defer relay.Stop()

			base, err := w.ensureRelay(progressiveEpisode())
			So(err, ShouldBeNil)
			So(strings.HasPrefix(base, "http://127.0.0.1:"), ShouldBeTrue)

			resp, err := http.Get(base + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("The next episode reuses the running instance", func() {
				again, err := w.ensureRelay(progressiveEpisode())
				So(err, ShouldBeNil)
				So(again, ShouldEqual, base)
			})
		})
	})
}

func TestControlPrompt(t *testing.T) {
	Convey("Given a scripted prompt", t, func() {
		prompt, asked, answers := scriptedPrompt()

		Convey("ask is a no-op while a menu is already live", func() {
			prompt.ask("watching", nil)
			<-asked

			prompt.ask("watching", nil)

			var second bool
			select {
			case <-asked:
				second = true
			case <-time.After(50 * time.Millisecond):
			}
			So(second, ShouldBeFalse)

			answers <- string(controlQuit)
			So(<-prompt.choices, ShouldEqual, string(controlQuit))
		})
	})
}

func TestControlLoop(t *testing.T) {
	Convey("Given a play session control loop", t, func() {
		w := &watcher{}
		viper.Set(key.PlaybackAutoplay, true)

		prompt, asked, answers := scriptedPrompt()
		episode := progressiveEpisode()

		Convey("Natural end with autoplay advances while the menu stays pending", func() {
			sess := &fakeSession{done: make(chan struct{})}
			ended := make(chan struct{}, 1)
			ended <- struct{}{}

			choice, err := w.controlLoop(prompt, sess, episode, ended, false, true)
			So(err, ShouldBeNil)
			So(choice, ShouldEqual, controlNext)
			<-asked

			Convey("The next loop consumes the pending menu instead of stacking a second", func() {
				next := &fakeSession{done: make(chan struct{})}
				result := make(chan control, 1)
				go func() {
					picked, _ := w.controlLoop(prompt, next, episode, make(chan struct{}), true, false)
					result <- picked
				}()

				var second bool
				select {
				case <-asked:
					second = true
				case <-time.After(50 * time.Millisecond):
				}
				So(second, ShouldBeFalse)

				answers <- string(controlQuit)
				So(<-result, ShouldEqual, controlQuit)
			})
		})

		Convey("A closed engine leaves the menu authoritative", func() {
			sess := &fakeSession{done: make(chan struct{})}
			close(sess.done)

			result := make(chan control, 1)
			errs := make(chan error, 1)
			go func() {
				picked, err := w.controlLoop(prompt, sess, episode, make(chan struct{}), false, false)
				errs <- err
				result <- picked
			}()

			<-asked
			// Pause is meaningless without an engine and must not reach it.
			answers <- string(controlPause)
			<-asked
			answers <- string(controlEpisodes)

			So(<-errs, ShouldBeNil)
			So(<-result, ShouldEqual, controlEpisodes)
			So(atomic.LoadInt32(&sess.toggles), ShouldEqual, 0)
		})
	})
}
