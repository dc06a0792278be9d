package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-voteproof/circuits"
	"github.com/vocdoni/davinci-voteproof/config"
	"github.com/vocdoni/davinci-voteproof/crypto/commitment"
	"github.com/vocdoni/davinci-voteproof/log"
	"github.com/vocdoni/davinci-voteproof/prover"
	"github.com/vocdoni/davinci-voteproof/types"
)

// run executes a command. The boolean result is false when a verification
// or reveal check did not pass.
func run(cfg *Config, command string, args []string) (bool, error) {
	if err := os.MkdirAll(cfg.Datadir, 0o755); err != nil {
		return false, fmt.Errorf("create datadir: %w", err)
	}
	switch command {
	case "setup":
		return true, runSetup(cfg)
	case "prove":
		return true, runProve(cfg)
	case "verify":
		return runVerify(cfg, args)
	case "reveal":
		return runReveal(cfg, args)
	default:
		return false, fmt.Errorf("unknown command %q", command)
	}
}

func runSetup(cfg *Config) error {
	kp, err := prover.Setup(cfg.Vote.MaxChoice)
	if err != nil {
		return err
	}
	pk, err := kp.ExportProvingKey()
	if err != nil {
		return err
	}
	vk, err := kp.ExportVerifyingKey()
	if err != nil {
		return err
	}
	if err := circuits.StoreBytes(pk, filepath.Join(cfg.Datadir, config.ProvingKeyFile)); err != nil {
		return err
	}
	if err := circuits.StoreBytes(vk, filepath.Join(cfg.Datadir, config.VerifyingKeyFile)); err != nil {
		return err
	}
	if err := circuits.StoreArtifact(kp.ConstraintSystem(), filepath.Join(cfg.Datadir, config.ConstraintSystemFile)); err != nil {
		return err
	}
	log.Infow("keys written",
		"datadir", cfg.Datadir,
		"maxChoice", cfg.Vote.MaxChoice,
		"fingerprint", kp.Fingerprint())
	return nil
}

func loadKeyPair(cfg *Config) (*prover.KeyPair, error) {
	pk, err := circuits.LoadBytes(filepath.Join(cfg.Datadir, config.ProvingKeyFile))
	if err != nil {
		return nil, err
	}
	vk, err := circuits.LoadBytes(filepath.Join(cfg.Datadir, config.VerifyingKeyFile))
	if err != nil {
		return nil, err
	}
	var opts []prover.Option
	ccsPath := filepath.Join(cfg.Datadir, config.ConstraintSystemFile)
	ccsBytes, err := circuits.LoadBytes(ccsPath)
	switch {
	case err == nil:
		ccs, err := prover.DecodeConstraintSystem(ccsBytes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ccsPath, err)
		}
		opts = append(opts, prover.WithConstraintSystem(ccs))
	case errors.Is(err, fs.ErrNotExist):
		log.Debugw("no stored constraint system, compiling the vote circuit", "path", ccsPath)
	default:
		return nil, err
	}
	return prover.LoadKeys(pk, vk, opts...)
}

func parseVoter(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: invalid voter address %q", types.ErrInvalidParameters, s)
	}
	return common.HexToAddress(s), nil
}

func parseNonce(s string) ([commitment.NonceSize]byte, error) {
	var nonce [commitment.NonceSize]byte
	b, err := types.HexStringToHexBytes(s)
	if err != nil {
		return nonce, err
	}
	if len(b) != commitment.NonceSize {
		return nonce, fmt.Errorf("%w: nonce must be %d bytes, got %d", types.ErrSerialization, commitment.NonceSize, len(b))
	}
	copy(nonce[:], b)
	return nonce, nil
}

// newVoteCommitment returns the reveal data of the configured vote, with a
// fresh nonce unless one is configured.
func newVoteCommitment(cfg *Config) (*types.VoteCommitment, error) {
	voter, err := parseVoter(cfg.Vote.Voter)
	if err != nil {
		return nil, err
	}
	if cfg.Vote.Nonce == "" {
		return commitment.NewVoteCommitment(cfg.Vote.Choice, voter, prover.SystemRandomness{}.Reader())
	}
	nonce, err := parseNonce(cfg.Vote.Nonce)
	if err != nil {
		return nil, err
	}
	return commitment.NewVoteCommitmentWithNonce(cfg.Vote.Choice, nonce, voter), nil
}

func runProve(cfg *Config) error {
	reveal, err := newVoteCommitment(cfg)
	if err != nil {
		return err
	}
	nonce, err := commitment.VoteNonce(reveal)
	if err != nil {
		return err
	}
	kp, err := loadKeyPair(cfg)
	if err != nil {
		return err
	}
	vp, err := kp.ProveVote(reveal.Choice, nonce, reveal.Voter, cfg.Vote.MaxChoice)
	if err != nil {
		return err
	}
	if vp.PublicInputs[0] != reveal.Commitment {
		return fmt.Errorf("%w: proof commitment %s does not match %s",
			types.ErrInvalidCommitment, vp.PublicInputs[0], reveal.Commitment)
	}
	if err := writeJSON(vp, filepath.Join(cfg.Datadir, config.VoteProofFile)); err != nil {
		return err
	}
	if err := writeJSON(reveal, filepath.Join(cfg.Datadir, config.VoteCommitmentFile)); err != nil {
		return err
	}
	log.Infow("vote proof written",
		"commitment", vp.PublicInputs[0],
		"maxChoice", cfg.Vote.MaxChoice,
		"datadir", cfg.Datadir)
	return nil
}

func runVerify(cfg *Config, files []string) (bool, error) {
	if len(files) == 0 {
		files = []string{filepath.Join(cfg.Datadir, config.VoteProofFile)}
	}
	vk, err := circuits.LoadBytes(filepath.Join(cfg.Datadir, config.VerifyingKeyFile))
	if err != nil {
		return false, err
	}
	verifier, err := prover.LoadVerifier(vk)
	if err != nil {
		return false, err
	}
	proofs := make([]*types.VoteProof, len(files))
	for i, file := range files {
		proofs[i] = &types.VoteProof{}
		if err := readJSON(file, proofs[i]); err != nil {
			return false, err
		}
	}
	results, err := verifier.VerifyBatch(context.Background(), proofs, cfg.Verify.Workers)
	if err != nil {
		return false, err
	}
	allValid := true
	for i, ok := range results {
		log.Infow("vote proof checked", "file", files[i], "valid", ok, "commitment", proofs[i].PublicInputs[0])
		allValid = allValid && ok
	}
	return allValid, nil
}

func runReveal(cfg *Config, files []string) (bool, error) {
	file := filepath.Join(cfg.Datadir, config.VoteCommitmentFile)
	if len(files) > 0 {
		file = files[0]
	}
	vc := &types.VoteCommitment{}
	if err := readJSON(file, vc); err != nil {
		return false, err
	}
	if err := commitment.Open(vc); err != nil {
		if errors.Is(err, types.ErrInvalidCommitment) {
			log.Warnw("reveal does not open the commitment", "commitment", vc.Commitment)
			return false, nil
		}
		return false, err
	}
	log.Infow("vote revealed", "commitment", vc.Commitment, "choice", vc.Choice, "voter", vc.Voter.Hex())
	return true, nil
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return circuits.StoreBytes(data, path)
}

func readJSON(path string, v any) error {
	data, err := circuits.LoadBytes(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrSerialization, path, err)
	}
	return nil
}
