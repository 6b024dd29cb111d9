package bench_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mdbench/internal/bench"
	"github.com/san-kum/mdbench/internal/engine"
	"github.com/san-kum/mdbench/internal/platforms"
)

// testFileSystem is an in-memory copy of testdata.
func testFileSystem() vfs.FileSystem {
	fs := memoryfs.New()
	Expect(vfs.CopyDir(osfs.OsFs, "testdata", fs, "/")).To(Succeed())
	return fs
}

// stepClock advances by two seconds on every reading.
func stepClock() bench.Clock {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(2 * time.Second)
		return t
	}
}

func waterOptions() bench.Options {
	opts := bench.DefaultOptions()
	opts.SystemFile = "/water-system.xml"
	opts.StateFile = "/water-state.xml"
	opts.ReportFile = "/out.log"
	opts.Platform = platforms.ReferenceName
	opts.Seed = 42
	return opts
}

type recordingObserver struct {
	started  []int
	finished []bench.Outcome
}

func (o *recordingObserver) CaseStarted(i int, _ bench.Case) { o.started = append(o.started, i) }
func (o *recordingObserver) CaseFinished(out bench.Outcome)  { o.finished = append(o.finished, out) }

var _ = Describe("Throughput", func() {
	It("scales simulated time to a day", func() {
		Expect(bench.Throughput(0.004, 10, 2*time.Second)).To(BeNumerically("~", 1.728, 1e-12))
		Expect(bench.Throughput(0.002, 1000, time.Second)).To(BeNumerically("~", 172.8, 1e-9))
	})

	It("is zero without steps", func() {
		Expect(bench.Throughput(0.004, 0, 0)).To(Equal(0.0))
	})

	It("is infinite for a zero duration", func() {
		Expect(math.IsInf(bench.Throughput(0.004, 10, 0), 1)).To(BeTrue())
	})
})

var _ = Describe("Properties", func() {
	It("passes no selector at the default indices", func() {
		Expect(bench.SelectorProperties("0", "0")).To(BeNil())
	})

	It("sets both selector keys when either index differs", func() {
		Expect(bench.SelectorProperties("0", "1")).To(Equal(engine.Properties{
			platforms.PlatformIndexProperty: "0",
			platforms.DeviceIndexProperty:   "1",
		}))
		Expect(bench.SelectorProperties("2", "0")).To(HaveLen(2))
	})

	It("merges with later sets winning", func() {
		merged := bench.MergeProperties(
			engine.Properties{"Threads": "1", "A": "x"},
			nil,
			engine.Properties{"Threads": "4"},
		)
		Expect(merged).To(Equal(engine.Properties{"Threads": "4", "A": "x"}))
		Expect(bench.MergeProperties(nil, engine.Properties{})).To(BeNil())
	})
})

var _ = Describe("Options", func() {
	It("defaults to the classic benchmark", func() {
		opts := bench.DefaultOptions()
		Expect(opts.ReportFile).To(Equal("tmp.log"))
		Expect(opts.Steps).To(Equal(10))
		Expect(opts.Platform).To(Equal("OpenCL"))
		Expect(opts.StepSize).To(Equal(0.004))
		Expect(opts.Properties).To(BeNil())
		Expect(opts.Validate()).To(Succeed())
	})

	It("rejects unusable values", func() {
		opts := bench.DefaultOptions()
		opts.Steps = -1
		Expect(opts.Validate()).NotTo(Succeed())

		opts = bench.DefaultOptions()
		opts.StepSize = 0
		Expect(opts.Validate()).NotTo(Succeed())

		opts = bench.DefaultOptions()
		opts.Integrator = "euler"
		Expect(opts.Validate()).NotTo(Succeed())
	})
})

var _ = Describe("Runner", func() {
	var fs vfs.FileSystem
	var reg *engine.Registry
	var runner *bench.Runner

	BeforeEach(func() {
		fs = testFileSystem()
		reg = engine.NewRegistry()
		Expect(platforms.Register(reg)).To(Succeed())
		runner = bench.NewRunner(reg, bench.WithFileSystem(fs), bench.WithClock(stepClock()))
	})

	It("writes the report", func() {
		res, err := runner.Run(waterOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Platform).To(Equal("Reference"))
		Expect(res.Elapsed).To(Equal(2 * time.Second))
		Expect(res.Total).To(Equal(6 * time.Second))
		Expect(res.NsPerDay).To(BeNumerically("~", 1.728, 1e-12))

		data, err := vfs.ReadFile(fs, "/out.log")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`
steps=10

Benchmark: /water-system.xml
Using platform: Reference
ns/day: 1.728
simulation time: 2 seconds
simulation time to completion: 6 seconds
`))
	})

	It("reports the requested step count on every run", func() {
		opts := waterOptions()
		opts.Steps = 3
		for i := 0; i < 2; i++ {
			_, err := runner.Run(opts)
			Expect(err).NotTo(HaveOccurred())
			data, err := vfs.ReadFile(fs, "/out.log")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("\nsteps=3\n"))
		}
	})

	It("truncates a longer report left by an earlier run", func() {
		Expect(vfs.WriteFile(fs, "/out.log", []byte(strings.Repeat("stale report line\n", 50)), 0644)).To(Succeed())
		opts := waterOptions()
		opts.Platform = "OpenCL"
		_, err := runner.Run(opts)
		Expect(err).To(HaveOccurred())

		data, err := vfs.ReadFile(fs, "/out.log")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("\nsteps=10\n\nBenchmark: /water-system.xml\n"))
	})

	It("runs the CPU platform with a thread count", func() {
		opts := waterOptions()
		opts.Platform = platforms.CPUName
		opts.Properties = engine.Properties{platforms.ThreadsProperty: "2"}
		res, err := runner.Run(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Properties).To(HaveKeyWithValue(platforms.ThreadsProperty, "2"))
	})

	It("runs the Verlet integrator", func() {
		opts := waterOptions()
		opts.Integrator = bench.IntegratorVerlet
		opts.StepSize = 0.002
		_, err := runner.Run(opts)
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails on an unknown platform after the header", func() {
		opts := waterOptions()
		opts.Platform = "OpenCL"
		_, err := runner.Run(opts)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, engine.ErrPlatformNotFound)).To(BeTrue())
		var se *engine.SimulationError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Op).To(Equal("resolve platform"))

		data, err := vfs.ReadFile(fs, "/out.log")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("\nsteps=10\n\nBenchmark: /water-system.xml\n"))
	})

	It("fails on a missing system file", func() {
		opts := waterOptions()
		opts.SystemFile = "/missing.xml"
		_, err := runner.Run(opts)
		Expect(errors.Is(err, engine.ErrMalformedInput)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("file not found"))
	})

	It("fails on a selector property the platform does not know", func() {
		opts := waterOptions()
		opts.Properties = bench.SelectorProperties("0", "1")
		_, err := runner.Run(opts)
		Expect(errors.Is(err, engine.ErrIllegalProperty)).To(BeTrue())
	})

	It("fails on a state of a different system", func() {
		Expect(vfs.WriteFile(fs, "/short-state.xml", []byte(
			`<State><Positions><Position x="0" y="0" z="0"/></Positions></State>`), 0644)).To(Succeed())
		opts := waterOptions()
		opts.StateFile = "/short-state.xml"
		_, err := runner.Run(opts)
		Expect(errors.Is(err, engine.ErrParticleCount)).To(BeTrue())
	})
})

var _ = Describe("Initialize", func() {
	It("runs once per registry", func() {
		reg := engine.NewRegistry()
		dir := GinkgoT().TempDir()

		d1, err := bench.Initialize(reg, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(d1.Platforms).To(Equal([]string{"Reference", "CPU"}))
		Expect(d1.Plugins).To(BeEmpty())

		d2, err := bench.Initialize(reg, "/somewhere/else")
		Expect(err).NotTo(HaveOccurred())
		Expect(d2).To(BeIdenticalTo(d1))
		Expect(reg.Names()).To(HaveLen(2))
	})
})

var _ = Describe("Sweep", func() {
	var fs vfs.FileSystem
	var runner *bench.Runner

	BeforeEach(func() {
		fs = testFileSystem()
		reg := engine.NewRegistry()
		Expect(platforms.Register(reg)).To(Succeed())
		runner = bench.NewRunner(reg, bench.WithFileSystem(fs), bench.WithClock(stepClock()))
	})

	It("derives case report names", func() {
		Expect(bench.CaseReportFile("tmp.log", bench.Case{Platform: "CPU", Steps: 100})).To(Equal("tmp-CPU-100.log"))
		Expect(bench.CaseReportFile("out", bench.Case{Platform: "Reference", Steps: 5})).To(Equal("out-Reference-5"))
	})

	It("continues past a failing case", func() {
		cases := []bench.Case{
			{Platform: "Reference", Steps: 2},
			{Platform: "OpenCL", Steps: 2},
			{Platform: "CPU", Steps: 2, Properties: engine.Properties{platforms.ThreadsProperty: "1"}},
		}
		obs := &recordingObserver{}
		outcomes, err := runner.Sweep(context.Background(), waterOptions(), cases, obs)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes).To(HaveLen(3))
		Expect(outcomes[0].Err).NotTo(HaveOccurred())
		Expect(errors.Is(outcomes[1].Err, engine.ErrPlatformNotFound)).To(BeTrue())
		Expect(outcomes[2].Err).NotTo(HaveOccurred())
		Expect(outcomes[2].ReportFile).To(Equal("/out-CPU-2.log"))
		Expect(obs.started).To(Equal([]int{0, 1, 2}))
		Expect(obs.finished).To(HaveLen(3))

		data, err := vfs.ReadFile(fs, "/out-Reference-2.log")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("Using platform: Reference"))
	})

	It("stops when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		outcomes, err := runner.Sweep(ctx, waterOptions(), []bench.Case{{Platform: "Reference", Steps: 1}}, nil)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(outcomes).To(BeEmpty())
	})
})
