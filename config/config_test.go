package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/program"
)

type countingHook struct {
	count int
}

func (h *countingHook) Func(ctx sim.HookCtx) {
	h.count++
}

var _ = Describe("Config", func() {
	It("should use defaults for an empty document", func() {
		cfg, err := config.Parse(strings.NewReader(""))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	It("should decode every field", func() {
		cfg, err := config.Parse(strings.NewReader(`
program: duet.asm
mode: Solo
maxRounds: 10
maxSteps: 20
trace: "-"
dumpState: true
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Config{
			Program:   "duet.asm",
			Mode:      config.ModeSolo,
			MaxRounds: 10,
			MaxSteps:  20,
			Trace:     "-",
			DumpState: true,
		}))
	})

	It("should reject unknown fields", func() {
		_, err := config.Parse(strings.NewReader("rounds: 3\n"))
		Expect(err).To(HaveOccurred())
	})

	It("should reject an unknown mode", func() {
		_, err := config.Parse(strings.NewReader("mode: trio\n"))
		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
	})

	It("should reject negative limits", func() {
		cfg := config.Default()
		cfg.MaxSteps = -1
		Expect(errors.Is(cfg.Validate(), config.ErrInvalidConfig)).To(BeTrue())

		cfg = config.Default()
		cfg.MaxRounds = -1
		Expect(errors.Is(cfg.Validate(), config.ErrInvalidConfig)).To(BeTrue())
	})

	It("should resolve the program next to the config file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "run.yaml")
		Expect(os.WriteFile(path, []byte("program: duet.asm\n"), 0o644)).To(Succeed())

		cfg, err := config.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Program).To(Equal(filepath.Join(dir, "duet.asm")))
	})

	It("should fail on a missing file", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "none.yaml"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("PairBuilder", func() {
	It("should build a pair that runs the program", func() {
		p, err := program.ParseString("snd 1\nsnd 2\nsnd p\nrcv a\nrcv b\nrcv c\nrcv d")
		Expect(err).NotTo(HaveOccurred())

		hook := &countingHook{}
		pair := config.NewPairBuilder().WithHook(hook).Build("Duet", p)

		res, err := pair.Scheduler.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(res.SentByOne).To(Equal(3))
		Expect(pair.Machines[0].Name()).To(Equal("Duet.Machine[0]"))
		Expect(pair.Machines[1].Register('p')).To(Equal(int64(1)))
		Expect(hook.count).To(BeNumerically(">", 0))
	})

	It("should apply the round limit", func() {
		p, err := program.ParseString("jgz 1 0")
		Expect(err).NotTo(HaveOccurred())

		cfg := config.Default()
		cfg.MaxRounds = 50

		res, err := config.NewPairBuilder().WithConfig(cfg).Build("Duet", p).
			Scheduler.Run(context.Background())

		Expect(errors.Is(err, api.ErrStepLimitExceeded)).To(BeTrue())
		Expect(res.Rounds).To(Equal(50))
	})

	It("should build a solo runner with the step limit", func() {
		p, err := program.ParseString("jgz 1 0")
		Expect(err).NotTo(HaveOccurred())

		solo := config.NewPairBuilder().WithMaxSteps(7).BuildSolo("Duet", p)
		res, err := solo.Runner.Run(context.Background())

		Expect(errors.Is(err, api.ErrStepLimitExceeded)).To(BeTrue())
		Expect(res.Steps).To(Equal(7))
		Expect(solo.Machine.Steps()).To(Equal(7))
	})
})
