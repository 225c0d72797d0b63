// Package transport exposes the verified stake metadata over HTTP.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StakeHandler serves stake metadata and kernel probes.
type StakeHandler struct {
	svc    StakeService
	logger *zap.Logger
}

// NewStakeHandler returns a StakeHandler instance.
func NewStakeHandler(svc StakeService, logger *zap.Logger) *StakeHandler {
	return &StakeHandler{svc: svc, logger: logger}
}

type blockResponse struct {
	Hash              string `json:"hash"`
	PrevHash          string `json:"prevHash"`
	Height            int32  `json:"height"`
	Time              int64  `json:"time"`
	Bits              string `json:"bits"`
	ProofOfStake      bool   `json:"proofOfStake"`
	EntropyBit        uint64 `json:"entropyBit"`
	GeneratedModifier bool   `json:"generatedModifier"`
	Modifier          string `json:"modifier"`
	ModifierChecksum  string `json:"modifierChecksum"`
	HashProofOfStake  string `json:"hashProofOfStake,omitempty"`
	BestChain         bool   `json:"bestChain"`
}

type checkpointResponse struct {
	Height   int32  `json:"height"`
	Checksum string `json:"checksum"`
}

type probeRequest struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
	Time int64  `json:"time"`
	Bits uint32 `json:"bits"`
}

type probeResponse struct {
	Eligible           bool   `json:"eligible"`
	HashProofOfStake   string `json:"hashProofOfStake,omitempty"`
	TargetProofOfStake string `json:"targetProofOfStake,omitempty"`
	Reason             string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports server health.
func (h *StakeHandler) Health(w http.ResponseWriter, _ *http.Request) {
	tip := h.svc.Index().BestChainTip()
	height := int32(-1)
	if tip != nil {
		height = tip.Height
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "height": height})
}

// Tip returns the stake metadata of the best chain tip.
func (h *StakeHandler) Tip(w http.ResponseWriter, _ *http.Request) {
	tip := h.svc.Index().BestChainTip()
	if tip == nil {
		h.writeError(w, http.StatusServiceUnavailable, errors.New("no verified blocks yet"))
		return
	}
	h.writeJSON(w, http.StatusOK, newBlockResponse(tip, true))
}

// Block returns the stake metadata of a block by hash.
func (h *StakeHandler) Block(w http.ResponseWriter, r *http.Request) {
	hash, err := chainhash.NewHashFromStr(mux.Vars(r)["hash"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid block hash: %w", err))
		return
	}
	index := h.svc.Index()
	ref, ok := index.BlockByHash(hash)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("block %s not found", hash))
		return
	}
	best, ok := index.BlockByHeight(ref.Height)
	h.writeJSON(w, http.StatusOK, newBlockResponse(ref, ok && best.Hash == ref.Hash))
}

// Checkpoints returns the enforced checkpoint table.
func (h *StakeHandler) Checkpoints(w http.ResponseWriter, _ *http.Request) {
	checkpoints := h.svc.Checkpoints()
	resp := make([]checkpointResponse, 0)
	for _, height := range checkpoints.Heights() {
		checksum, _ := checkpoints.Lookup(height)
		resp = append(resp, checkpointResponse{Height: height, Checksum: kernel.FormatChecksum(checksum)})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ProbeStake evaluates an output as a kernel at a given time.
func (h *StakeHandler) ProbeStake(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err))
		return
	}
	txid, err := chainhash.NewHashFromStr(req.TxID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid txid: %w", err))
		return
	}
	if req.Time <= 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("time is required"))
		return
	}

	proof, ok, err := h.svc.ProbeStake(r.Context(), wire.OutPoint{Hash: *txid, Index: req.Vout}, req.Time, req.Bits)
	switch {
	case errors.Is(err, kernel.ErrMissingPrevout):
		h.writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, kernel.ErrModifierUnavailable), errors.Is(err, kernel.ErrMissingHistory):
		h.writeError(w, http.StatusServiceUnavailable, err)
		return
	case err != nil && !kernel.IsRejection(err):
		h.logger.Error("probe stake failed", zap.String("txid", req.TxID), zap.Uint32("vout", req.Vout), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errors.New("probe stake failed"))
		return
	}

	resp := probeResponse{Eligible: ok}
	if err != nil {
		resp.Reason = err.Error()
	}
	if proof != nil {
		resp.HashProofOfStake = proof.Hash.String()
		resp.TargetProofOfStake = fmt.Sprintf("%064x", proof.Target)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func newBlockResponse(ref *kernel.BlockRef, best bool) blockResponse {
	resp := blockResponse{
		Hash:              ref.Hash.String(),
		PrevHash:          ref.PrevHash.String(),
		Height:            ref.Height,
		Time:              ref.Timestamp,
		Bits:              fmt.Sprintf("%08x", ref.Bits),
		ProofOfStake:      ref.IsProofOfStake(),
		EntropyBit:        ref.StakeEntropyBit(),
		GeneratedModifier: ref.GeneratedStakeModifier(),
		Modifier:          kernel.FormatModifier(ref.StakeModifier),
		ModifierChecksum:  kernel.FormatChecksum(ref.StakeModifierChecksum),
		BestChain:         best,
	}
	if ref.IsProofOfStake() {
		resp.HashProofOfStake = ref.HashProofOfStake.String()
	}
	return resp
}

func (h *StakeHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (h *StakeHandler) writeError(w http.ResponseWriter, code int, err error) {
	h.writeJSON(w, code, errorResponse{Error: err.Error()})
}
