package service

import (
	"context"
	"fmt"
	"time"

	"cryptovibe/internal/cache"
	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/solana"
)

const nftCacheTTL = 5 * time.Minute

// TokenHolderChecker is satisfied by solana.Client.
type TokenHolderChecker interface {
	HoldsToken(ctx context.Context, owner, mint string) (bool, error)
}

// HolderStatus is the result of an NFT holder check.
type HolderStatus struct {
	Owner  string `json:"owner"`
	Mint   string `json:"mint"`
	Holder bool   `json:"holder"`
}

// NFTService checks whether a wallet holds a given mint.
type NFTService interface {
	CheckHolder(ctx context.Context, owner, mint string) (*HolderStatus, error)
}

type nftService struct {
	rpc   TokenHolderChecker
	cache *cache.Client
}

// NewNFTService creates an NFT service; results are cached in redis.
func NewNFTService(rpc TokenHolderChecker, cache *cache.Client) NFTService {
	return &nftService{rpc: rpc, cache: cache}
}

func (s *nftService) cacheKey(owner, mint string) string {
	return fmt.Sprintf("nft:%s:%s", owner, mint)
}

func (s *nftService) CheckHolder(ctx context.Context, owner, mint string) (*HolderStatus, error) {
	if !solana.ValidAddress(owner) {
		return nil, fmt.Errorf("%w: invalid owner address", apperrors.ErrInvalidInput)
	}
	if !solana.ValidAddress(mint) {
		return nil, fmt.Errorf("%w: invalid mint address", apperrors.ErrInvalidInput)
	}

	var cached HolderStatus
	if s.cache.GetJSON(ctx, s.cacheKey(owner, mint), &cached) {
		return &cached, nil
	}

	holder, err := s.rpc.HoldsToken(ctx, owner, mint)
	if err != nil {
		return nil, err
	}

	status := &HolderStatus{Owner: owner, Mint: mint, Holder: holder}
	_ = s.cache.SetJSON(ctx, s.cacheKey(owner, mint), status, nftCacheTTL)
	return status, nil
}
