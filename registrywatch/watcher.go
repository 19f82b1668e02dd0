// Package registrywatch는 그룹 레지스트리의 첫 페이지를 주기적으로 폴링해
// 내용이 바뀌면 레지스트리 변경 이벤트를 발행하는 백그라운드 감시자다.
//
// 폴링은 remotedata.Controller를 통해 이루어지므로 뒤처진 fetch 결과는
// 세대 카운터가 걸러 준다. 감시자 자신은 Store 구독 채널로 성공 스냅샷만
// 받아 내용 해시를 비교한다.
package registrywatch

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/config"
	"ir-gateway/eventbus"
	"ir-gateway/events"
	"ir-gateway/remotedata"
)

type Watcher struct {
	controller *remotedata.Controller[repoclient.GroupItem]
	bus        eventbus.EventBus // nil이면 변화를 로그로만 남긴다
	interval   time.Duration
	timeout    time.Duration

	stop chan struct{}
	done chan struct{}
}

// New는 감시자를 만든다. 아직 폴링은 시작하지 않는다.
func New(repoClient *repoclient.Client, bus eventbus.EventBus, interval time.Duration, pageSize int) (*Watcher, error) {
	fetch := func(ctx context.Context, q remotedata.Query) (remotedata.PaginatedList[repoclient.GroupItem], error) {
		resp, err := repoClient.ListGroups(ctx, q.Text, q.Page, q.PageSize)
		if err != nil {
			return remotedata.PaginatedList[repoclient.GroupItem]{}, err
		}
		return remotedata.PaginatedList[repoclient.GroupItem]{
			PageInfo: resp.Page.PageInfo(),
			Items:    resp.Groups,
		}, nil
	}

	controller, err := remotedata.NewController(fetch, pageSize)
	if err != nil {
		return nil, err
	}

	return &Watcher{
		controller: controller,
		bus:        bus,
		interval:   interval,
		timeout:    interval / 2,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// Start begins polling in a background goroutine.
func (w *Watcher) Start() {
	go w.run()
}

// Close stops polling and tears down the controller. 반환 시점 이후로는
// 어떤 늦은 fetch 결과도 상태를 바꾸지 못한다.
func (w *Watcher) Close() {
	close(w.stop)
	<-w.done
	w.controller.Close()
}

func (w *Watcher) run() {
	defer close(w.done)

	sub := w.controller.Store().Subscribe()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// 기준 스냅샷을 먼저 확보한다. 첫 성공 수신은 비교 없이 기록만 한다.
	w.poll()

	var lastDigest string
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.poll()
		case res, ok := <-sub:
			if !ok {
				return
			}
			// 진행 중 스냅샷(Begin 직후)은 비교 대상이 아니다.
			if res.IsLoading() {
				continue
			}
			if res.HasFailed() {
				config.Logger().Warn("registry poll failed", "error", res.ErrorMessage)
				continue
			}
			if !res.HasSucceeded() || res.Payload == nil {
				continue
			}

			digest := digestGroups(res.Payload.Items)
			if lastDigest != "" && digest != lastDigest {
				w.publishChange(digest)
			}
			lastDigest = digest
		}
	}
}

func (w *Watcher) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.controller.Apply(ctx, remotedata.RefreshForced{}); err != nil {
		config.Logger().Warn("registry poll failed", "error", err)
	}
}

func (w *Watcher) publishChange(digest string) {
	q := w.controller.Query()
	config.Logger().Info("registry content changed", "page", q.Page, "digest", digest)
	if w.bus == nil {
		return
	}

	evt, err := eventbus.NewJSONEvent("", events.NewRegistryChangedEvent(q.Text, q.Page, digest))
	if err != nil {
		config.Logger().Error("registry change event encoding failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.bus.Publish(ctx, eventbus.TopicGroupRegistry.Base(), evt); err != nil {
		config.Logger().Error("registry change event publish failed", "error", err)
	}
}

// digestGroups는 페이지 내용의 순서 독립 해시를 만든다.
// uuid와 name만 본다. 링크 변화는 내용 변화로 치지 않는다.
func digestGroups(groups []repoclient.GroupItem) string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.UUID+"\x00"+g.Name)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
