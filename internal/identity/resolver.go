// Package identity はトークンのクレームとプロフィールストアから
// リクエストごとのID（Resolved Identity）を解決する。
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepe/prepe/internal/metrics"
	"github.com/prepe/prepe/internal/model"
	"github.com/prepe/prepe/internal/repository"
)

// ErrNoSubject はクレームにsubjectがない場合のエラー。
var ErrNoSubject = errors.New("claims have no subject")

// Resolver はクレームからIDを解決する。
// プロフィールは呼び出しのたびにストアへ1回だけ問い合わせ、キャッシュしない。
type Resolver struct {
	profileRepo repository.ProfileRepository
	metrics     metrics.MetricsCollector
	logger      *slog.Logger
}

// NewResolver はResolverを生成する。metricsがnilの場合は記録しない。
func NewResolver(profileRepo repository.ProfileRepository, mc metrics.MetricsCollector) *Resolver {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Resolver{
		profileRepo: profileRepo,
		metrics:     mc,
		logger:      slog.Default(),
	}
}

// Resolve はクレームに対応するIDを返す。
//
// プロフィールが見つかった場合はプロフィールの全フィールドを持ち、IDはprofile.UserIDになる。
// 見つからない場合はsubjectとクレームのemailのみを持つIDを返す。
// いずれの場合もIDはclaims.Subjectと一致する。
// ストアのエラーはそのまま返し、代替のIDは作らない。
func (r *Resolver) Resolve(ctx context.Context, claims *model.ClaimSet) (*model.Identity, error) {
	if claims == nil || claims.Subject == "" {
		return nil, ErrNoSubject
	}

	start := time.Now()
	profile, err := r.profileRepo.FindFirstByUserID(ctx, claims.Subject)
	r.metrics.RecordProfileLookupLatency(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if profile == nil {
		r.metrics.RecordIdentityFallback()
		r.logger.InfoContext(ctx, "プロフィール未登録のためクレームでIDを解決",
			slog.String("user_id", claims.Subject),
		)
		return &model.Identity{
			ID:    claims.Subject,
			Email: claims.Email,
		}, nil
	}

	email := profile.Email
	if email == "" {
		email = claims.Email
	}

	// プロフィール自身の主キーではなくuser_idをIDとする
	return &model.Identity{
		ID:      profile.UserID,
		Email:   email,
		Profile: profile,
	}, nil
}
