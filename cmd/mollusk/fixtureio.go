package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/computebudget"
	"github.com/mollusk-svm/mollusk-go/featureset"
	"github.com/mollusk-svm/mollusk-go/fixture/firedancer"
	molluskfixture "github.com/mollusk-svm/mollusk-go/fixture/mollusk"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/sysvar"
)

// loadedFixture is a format-independent view over either wire format:
// the instruction and accounts to replay, plus the effects the fixture
// itself recorded (the "expected" side of a comparison), plus the
// execution conditions (compute budget, feature set, sysvars) the
// fixture's own context specified. Firedancer contexts don't carry a
// full sysvar block (only a slot), so Sysvars is nil for that format
// and the harness's own block is left alone aside from its clock.
type loadedFixture struct {
	Name          string
	Ix            instruction.Instruction
	Accounts      account.Entries
	Expected      *result.InstructionResult
	ComputeBudget computebudget.ComputeBudget
	FeatureSet    featureset.FeatureSet
	Sysvars       *sysvar.Block
	Slot          uint64
}

// loadFixtures resolves path to one or more fixture files: a single
// file is read directly, a directory is walked (non-recursive) for
// files whose extension matches the wire format's emission convention
// (.json for the JSON codec path, .bin for the binary one).
func loadFixtures(path, proto string) ([]loadedFixture, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext == ".json" || ext == ".bin" {
				paths = append(paths, filepath.Join(path, e.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fixtures found under %s", path)
	}

	out := make([]loadedFixture, 0, len(paths))
	for _, p := range paths {
		lf, err := loadFixtureFile(p, proto)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, lf)
	}
	return out, nil
}

func loadFixtureFile(path, proto string) (loadedFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadedFixture{}, err
	}
	isJSON := strings.EqualFold(filepath.Ext(path), ".json")

	switch proto {
	case "firedancer":
		var fx *firedancer.Fixture
		if isJSON {
			fx, err = firedancer.DecodeJSON(data)
		} else {
			fx, err = firedancer.DecodeBinary(data)
		}
		if err != nil {
			return loadedFixture{}, err
		}
		ix, accounts := fx.Context.ToInstruction()
		expected := firedancer.ParseEffects(accounts, fx.Context.ComputeUnitsAvailable, fx.Effects)
		return loadedFixture{
			Name:          filepath.Base(path),
			Ix:            ix,
			Accounts:      accounts,
			Expected:      expected,
			ComputeBudget: fx.Context.ComputeBudget(),
			FeatureSet:    fx.Context.FeatureSet(),
			Slot:          fx.Context.SlotContext.Slot,
		}, nil

	default: // "mollusk"
		var fx *molluskfixture.Fixture
		if isJSON {
			fx, err = molluskfixture.DecodeJSON(data)
		} else {
			fx, err = molluskfixture.DecodeBinary(data)
		}
		if err != nil {
			return loadedFixture{}, err
		}
		fx.Context.ResolveDefaults()
		ix := instruction.New(fx.Context.ProgramID, fx.Context.InstructionData, fx.Context.InstructionAccounts)
		expected := fx.Effects.ToInstructionResult()
		sysvars := fx.Context.Sysvars
		return loadedFixture{
			Name:          filepath.Base(path),
			Ix:            ix,
			Accounts:      fx.Context.Accounts,
			Expected:      expected,
			ComputeBudget: fx.Context.ComputeBudget,
			FeatureSet:    fx.Context.FeatureSet,
			Sysvars:       &sysvars,
			Slot:          fx.Context.Sysvars.Clock.Slot,
		}, nil
	}
}

// readELF loads a program's raw ELF bytes. SBF_OUT_DIR/BPF_OUT_DIR
// resolution and fixture-directory search conventions are the
// out-of-scope "file I/O" collaborator this command only consumes
// through a plain path argument.
func readELF(path string) ([]byte, error) {
	return os.ReadFile(path)
}
