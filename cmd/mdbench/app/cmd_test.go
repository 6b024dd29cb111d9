package app_test

import (
	"bytes"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mdbench/cmd/mdbench/app"
	"github.com/san-kum/mdbench/internal/engine"
)

const usageHint = `Run: mdbench [reportFile=tmp.log] [steps=10] [platform=OpenCL,CPU,Reference] [platformIndex] [deviceIndex]
E.g.:  mdbench out.log 1000
E.g.:  mdbench out.log 1000 OpenCL 0 1
`

var _ = Describe("mdbench", func() {
	var fs vfs.FileSystem
	var stdout, stderr *bytes.Buffer
	var pluginDir string

	execute := func(args ...string) int {
		t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time {
			t = t.Add(2 * time.Second)
			return t
		}
		common := []string{
			"--system", "/water-system.xml",
			"--state", "/water-state.xml",
			"--plugin-dir", pluginDir,
			"--seed", "7",
		}
		return app.Execute(append(common, args...), stdout, stderr,
			app.WithFileSystem(fs),
			app.WithRegistry(engine.NewRegistry()),
			app.WithClock(clock),
		)
	}

	report := func(path string) string {
		data, err := vfs.ReadFile(fs, path)
		Expect(err).NotTo(HaveOccurred())
		return string(data)
	}

	BeforeEach(func() {
		fs = memoryfs.New()
		Expect(vfs.CopyDir(osfs.OsFs, "testdata", fs, "/")).To(Succeed())
		stdout = bytes.NewBuffer(nil)
		stderr = bytes.NewBuffer(nil)
		pluginDir = GinkgoT().TempDir()
	})

	Context("benchmark run", func() {
		It("runs with positional arguments", func() {
			Expect(execute("/out.log", "5", "Reference")).To(Equal(0))
			Expect(stdout.String()).To(BeEmpty())
			Expect(report("/out.log")).To(Equal(`
steps=5

Benchmark: /water-system.xml
Using platform: Reference
ns/day: 0.864
simulation time: 2 seconds
simulation time to completion: 6 seconds
`))
		})

		It("overwrites the report of an earlier run", func() {
			Expect(execute("/out.log", "5", "Reference")).To(Equal(0))
			Expect(execute("/out.log", "3", "Reference")).To(Equal(0))
			Expect(stdout.String()).To(BeEmpty())
			Expect(report("/out.log")).To(HavePrefix("\nsteps=3\n"))
			Expect(report("/out.log")).To(HaveSuffix("simulation time to completion: 6 seconds\n"))
		})

		It("keeps defaults for missing trailing arguments", func() {
			Expect(execute("/only.log")).To(Equal(0))
			Expect(report("/only.log")).To(HavePrefix("\nsteps=10\n"))
			Expect(stdout.String()).To(ContainSubstring(`"OpenCL"`))
		})

		It("reads a non numeric step count as zero", func() {
			Expect(execute("/zero.log", "abc", "CPU")).To(Equal(0))
			Expect(report("/zero.log")).To(ContainSubstring("steps=0\n"))
			Expect(report("/zero.log")).To(ContainSubstring("ns/day: 0\n"))
		})

		It("prints the failure and the usage hint on an unknown platform", func() {
			Expect(execute("/out.log", "10", "Vulkan")).To(Equal(0))
			Expect(stdout.String()).To(HavePrefix("benchmark failed: resolve platform: "))
			Expect(stdout.String()).To(HaveSuffix("\n\n" + usageHint))
			Expect(report("/out.log")).To(Equal("\nsteps=10\n\nBenchmark: /water-system.xml\n"))
		})

		It("exits with the configured failure code", func() {
			Expect(execute("--fail-exit-code", "3", "/out.log", "10", "Vulkan")).To(Equal(3))
			Expect(stdout.String()).To(ContainSubstring("benchmark failed:"))
		})

		It("passes the selector indices as properties", func() {
			Expect(execute("/out.log", "2", "Reference", "0", "1")).To(Equal(0))
			Expect(stdout.String()).To(ContainSubstring("illegal property"))
			Expect(stdout.String()).To(ContainSubstring("DeviceIndex"))
		})

		It("accepts explicit properties", func() {
			Expect(execute("--property", "Threads=2", "/cpu.log", "2", "CPU")).To(Equal(0))
			Expect(stdout.String()).To(BeEmpty())
			Expect(report("/cpu.log")).To(ContainSubstring("Using platform: CPU\n"))
		})

		It("rejects a malformed property", func() {
			Expect(execute("--property", "Threads", "/out.log", "2", "CPU")).To(Equal(0))
			Expect(stdout.String()).To(ContainSubstring(`property "Threads": expected name=value`))
		})

		It("takes settings from a config file", func() {
			Expect(vfs.WriteFile(fs, "/bench.yaml", []byte(`
report: /from-config.log
steps: 4
platform: ${MDBENCH_TEST_PLATFORM:-Reference}
integrator:
  kind: verlet
step_size: 0.002
`), 0644)).To(Succeed())
			Expect(execute("--config", "/bench.yaml")).To(Equal(0))
			Expect(stdout.String()).To(BeEmpty())
			Expect(report("/from-config.log")).To(ContainSubstring("steps=4\n"))
			Expect(report("/from-config.log")).To(ContainSubstring("ns/day: 0.3456\n"))
		})

		It("lets positional arguments win over a preset", func() {
			Expect(execute("--preset", "smoke", "/preset.log", "3")).To(Equal(0))
			Expect(report("/preset.log")).To(ContainSubstring("steps=3\n"))
			Expect(report("/preset.log")).To(ContainSubstring("Using platform: Reference\n"))
		})

		It("fails on an unknown preset", func() {
			Expect(execute("--preset", "huge", "/out.log")).To(Equal(0))
			Expect(stdout.String()).To(ContainSubstring(`unknown preset "huge"`))
		})

		It("rejects more than five arguments", func() {
			Expect(execute("a", "1", "CPU", "0", "0", "extra")).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("Error:"))
		})

		It("takes a negative step count as a flag unless it follows --", func() {
			Expect(execute("/neg.log", "-5", "Reference")).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("Error:"))

			stderr.Reset()
			Expect(execute("--", "/neg.log", "-5", "Reference")).To(Equal(0))
			Expect(stderr.String()).To(BeEmpty())
			Expect(stdout.String()).To(HavePrefix("benchmark failed: options: negative step count -5"))
		})
	})

	Context("records", func() {
		It("stores runs and shows their history", func() {
			Expect(execute("--record", "/records", "/a.log", "2", "Reference")).To(Equal(0))
			Expect(execute("--record", "/records", "/b.log", "2", "CPU")).To(Equal(0))
			entries, err := vfs.ReadDir(fs, "/records")
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))

			stdout.Reset()
			Expect(execute("history", "--record", "/records")).To(Equal(0))
			Expect(stdout.String()).To(ContainSubstring("NAME"))
			Expect(stdout.String()).To(ContainSubstring("Reference"))
			Expect(stdout.String()).To(ContainSubstring("CPU"))
		})

		It("reports an empty history", func() {
			Expect(execute("history", "--record", "/nothing")).To(Equal(0))
			Expect(stdout.String()).To(Equal("no recorded runs\n"))
		})
	})

	Context("platforms", func() {
		It("lists the built-in platforms", func() {
			Expect(execute("platforms")).To(Equal(0))
			Expect(stdout.String()).To(ContainSubstring("plugin directory: " + pluginDir))
			Expect(stdout.String()).To(MatchRegexp(`Reference\s+1\s`))
			Expect(stdout.String()).To(MatchRegexp(`CPU\s+10\s+Threads=\d+`))
		})
	})

	Context("sweep", func() {
		It("runs every case and keeps going past failures", func() {
			Expect(execute("sweep", "--plain", "--platforms", "Reference,OpenCL", "--steps", "1,2")).To(Equal(0))
			out := stdout.String()
			Expect(out).To(ContainSubstring("[1] Reference/1: running\n"))
			Expect(out).To(ContainSubstring("[3] OpenCL/1: failed:"))
			Expect(out).To(ContainSubstring("2 of 4 cases succeeded\n"))
			Expect(report("tmp-Reference-2.log")).To(HavePrefix("\nsteps=2\n"))
		})

		It("exits with the failure code when a case fails", func() {
			Expect(execute("sweep", "--plain", "--fail-exit-code", "2", "--platforms", "OpenCL")).To(Equal(2))
		})
	})
})
