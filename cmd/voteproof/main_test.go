package main

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	flag "github.com/spf13/pflag"
	"github.com/vocdoni/davinci-voteproof/config"
	"github.com/vocdoni/davinci-voteproof/crypto/commitment"
	"github.com/vocdoni/davinci-voteproof/internal/testutil"
	"github.com/vocdoni/davinci-voteproof/types"
)

func testConfig(c *qt.C, args ...string) (*Config, []string) {
	fs := flag.NewFlagSet("voteproof", flag.ContinueOnError)
	cfg, rest, err := loadConfig(fs, args)
	c.Assert(err, qt.IsNil)
	c.Assert(validateConfig(cfg), qt.IsNil)
	return cfg, rest
}

func TestLoadConfig(t *testing.T) {
	c := qt.New(t)

	cfg, rest := testConfig(c)
	c.Assert(rest, qt.HasLen, 0)
	c.Assert(cfg.Vote.MaxChoice, qt.Equals, uint64(config.DefaultMaxChoice))
	c.Assert(cfg.Datadir, qt.Equals, config.DefaultDatadir)
	c.Assert(cfg.Log.Level, qt.Equals, config.DefaultLogLevel)

	t.Setenv("VOTEPROOF_VOTE_MAXCHOICE", "7")
	cfg, rest = testConfig(c, "--vote.choice=2", "-d", "/tmp/votes", "verify", "a.json")
	c.Assert(rest, qt.DeepEquals, []string{"verify", "a.json"})
	c.Assert(cfg.Vote.MaxChoice, qt.Equals, uint64(7))
	c.Assert(cfg.Vote.Choice, qt.Equals, uint64(2))
	c.Assert(cfg.Datadir, qt.Equals, "/tmp/votes")

	c.Assert(validateConfig(&Config{}), qt.ErrorMatches, "max choice must be positive")
}

func TestParseInputs(t *testing.T) {
	c := qt.New(t)

	voter, err := parseVoter("0x0101010101010101010101010101010101010101")
	c.Assert(err, qt.IsNil)
	c.Assert(voter, qt.Equals, testutil.FixedVoter())
	_, err = parseVoter("0x01")
	c.Assert(err, qt.ErrorIs, types.ErrInvalidParameters)

	nonce := testutil.FixedNonce()
	h := types.HexBytes(nonce[:])
	parsed, err := parseNonce(h.String())
	c.Assert(err, qt.IsNil)
	c.Assert(parsed, qt.Equals, nonce)
	_, err = parseNonce("0x2a")
	c.Assert(err, qt.ErrorIs, types.ErrSerialization)

	_, err = parseNonce("")
	c.Assert(err, qt.ErrorIs, types.ErrSerialization)
}

func TestNewVoteCommitment(t *testing.T) {
	c := qt.New(t)
	nonce := testutil.FixedNonce()
	h := types.HexBytes(nonce[:])

	cfg, _ := testConfig(c, "--vote.choice=1", "--vote.voter="+testutil.FixedVoter().Hex(), "--vote.nonce="+h.String())
	vc, err := newVoteCommitment(cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(vc.Commitment, qt.Equals,
		"f0ddc72e668d55c5816b7090c5d9aa181669492b29121a98febfc106f2322e01")
	c.Assert(commitment.Open(vc), qt.IsNil)

	// without a nonce every vote gets a fresh one
	cfg.Vote.Nonce = ""
	a, err := newVoteCommitment(cfg)
	c.Assert(err, qt.IsNil)
	b, err := newVoteCommitment(cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(a.Nonce.Equal(b.Nonce), qt.IsFalse)
	c.Assert(commitment.Open(a), qt.IsNil)

	cfg.Vote.Voter = "0x01"
	_, err = newVoteCommitment(cfg)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidParameters)
}

func TestCommands(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	nonce := testutil.FixedNonce()
	h := types.HexBytes(nonce[:])

	cfg, _ := testConfig(c, "-d", dir,
		"--vote.choice=1",
		"--vote.voter="+testutil.FixedVoter().Hex(),
		"--vote.nonce="+h.String())

	ok, err := run(cfg, "setup", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	// keys load with the stored circuit, and without it
	ccsPath := filepath.Join(dir, config.ConstraintSystemFile)
	_, err = os.Stat(ccsPath)
	c.Assert(err, qt.IsNil)
	_, err = loadKeyPair(cfg)
	c.Assert(err, qt.IsNil)
	ccsBytes, err := os.ReadFile(ccsPath)
	c.Assert(err, qt.IsNil)
	c.Assert(os.WriteFile(ccsPath, ccsBytes[:len(ccsBytes)/2], 0o644), qt.IsNil)
	_, err = loadKeyPair(cfg)
	c.Assert(err, qt.ErrorIs, types.ErrSerialization)
	c.Assert(os.Remove(ccsPath), qt.IsNil)
	_, err = loadKeyPair(cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(os.WriteFile(ccsPath, ccsBytes, 0o644), qt.IsNil)

	ok, err = run(cfg, "prove", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	vp := &types.VoteProof{}
	c.Assert(readJSON(filepath.Join(dir, config.VoteProofFile), vp), qt.IsNil)
	c.Assert(vp.PublicInputs[0], qt.Equals,
		"f0ddc72e668d55c5816b7090c5d9aa181669492b29121a98febfc106f2322e01")

	ok, err = run(cfg, "verify", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	ok, err = run(cfg, "reveal", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	// a forged reveal does not pass
	vc := &types.VoteCommitment{}
	c.Assert(readJSON(filepath.Join(dir, config.VoteCommitmentFile), vc), qt.IsNil)
	vc.Choice = 2
	forged := filepath.Join(dir, "forged.json")
	c.Assert(writeJSON(vc, forged), qt.IsNil)
	ok, err = run(cfg, "reveal", []string{forged})
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	// a proof with a different max choice does not verify
	vp.PublicInputs[1] = "0400000000000000000000000000000000000000000000000000000000000000"
	tampered := filepath.Join(dir, "tampered.json")
	c.Assert(writeJSON(vp, tampered), qt.IsNil)
	ok, err = run(cfg, "verify", []string{filepath.Join(dir, config.VoteProofFile), tampered})
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	// out of range choice
	cfg.Vote.Choice = 3
	_, err = run(cfg, "prove", nil)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidChoice)

	_, err = run(cfg, "unknown", nil)
	c.Assert(err, qt.ErrorMatches, `unknown command "unknown"`)
}
