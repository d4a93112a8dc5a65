package forum

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Enrichment attaches derived social metadata (like counts, viewer-liked
// flags, reply counts) to already-fetched threads or comments.
//
// The three lookups run concurrently, each as one batched query over the
// id-set. Any lookup that fails degrades to zero values for every item,
// so one bad lookup never blocks a forum page. Input order is preserved;
// results merge back by item id.

func (s *Service) EnrichThreads(ctx context.Context, items []Thread, viewerID string) []ThreadView {
	viewerID = strings.TrimSpace(viewerID)
	if len(items) == 0 {
		return []ThreadView{}
	}

	ids := make([]string, len(items))
	for i, t := range items {
		ids[i] = t.ID
	}

	var (
		likes   map[string]int
		viewer  map[string]bool
		replies map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.repo.CountThreadLikes(gctx, ids)
		if err != nil {
			s.log.Warn().Err(err).Msg("thread like counts lookup failed")
			return nil
		}
		likes = m
		return nil
	})
	g.Go(func() error {
		if viewerID == "" {
			return nil
		}
		m, err := s.repo.ThreadLikesByViewer(gctx, ids, viewerID)
		if err != nil {
			s.log.Warn().Err(err).Msg("viewer thread likes lookup failed")
			return nil
		}
		viewer = m
		return nil
	})
	g.Go(func() error {
		m, err := s.repo.CountReplies(gctx, ids)
		if err != nil {
			s.log.Warn().Err(err).Msg("reply counts lookup failed")
			return nil
		}
		replies = m
		return nil
	})
	_ = g.Wait() // goroutines only ever return nil

	out := make([]ThreadView, len(items))
	for i, t := range items {
		out[i] = ThreadView{
			Thread:       t,
			LikesCount:   likes[t.ID],
			UserHasLiked: viewer[t.ID],
			ReplyCount:   replies[t.ID],
		}
	}
	return out
}

func (s *Service) EnrichComments(ctx context.Context, items []Comment, viewerID string) []CommentView {
	viewerID = strings.TrimSpace(viewerID)
	if len(items) == 0 {
		return []CommentView{}
	}

	ids := make([]string, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}

	var (
		likes  map[string]int
		viewer map[string]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.repo.CountCommentLikes(gctx, ids)
		if err != nil {
			s.log.Warn().Err(err).Msg("comment like counts lookup failed")
			return nil
		}
		likes = m
		return nil
	})
	g.Go(func() error {
		if viewerID == "" {
			return nil
		}
		m, err := s.repo.CommentLikesByViewer(gctx, ids, viewerID)
		if err != nil {
			s.log.Warn().Err(err).Msg("viewer comment likes lookup failed")
			return nil
		}
		viewer = m
		return nil
	})
	_ = g.Wait()

	out := make([]CommentView, len(items))
	for i, c := range items {
		out[i] = CommentView{
			Comment:      c,
			LikesCount:   likes[c.ID],
			UserHasLiked: viewer[c.ID],
		}
	}
	return out
}
