// Command climbsim runs a character through an input script without a window
// and prints what happened.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/prefabs"
	"github.com/milk9111/wallclimb/script"
	"github.com/milk9111/wallclimb/sim"
	"go.uber.org/zap"
)

func main() {
	prefab := flag.String("prefab", "character", "character prefab in prefabs/ (.yaml optional)")
	levelName := flag.String("level", "", "level name in levels/, overrides the prefab")
	scriptName := flag.String("script", "", "input script in prefabs/scripts/, overrides the prefab")
	frames := flag.Int("frames", 1200, "maximum frames to run, 0 for no limit")
	dt := flag.Float64("dt", common.DefaultDelta, "seconds per frame")
	world := flag.String("world", string(sim.WorldBox), "collision world: box or planar")
	logLevel := flag.String("log-level", "", "log level, overrides the prefab")
	trace := flag.Bool("trace", false, "log every probe and wall step")
	list := flag.Bool("list", false, "list the embedded scripts and exit")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(prefabs.ScriptNames(), "\n"))
		return
	}

	if err := run(*prefab, *levelName, *scriptName, *world, *logLevel, *trace, *frames, *dt); err != nil {
		fmt.Fprintln(os.Stderr, "climbsim:", err)
		os.Exit(1)
	}
}

func run(prefab, levelName, scriptName, world, logLevel string, trace bool, frames int, dt float64) error {
	spec, err := prefabs.LoadCharacterSpecFile(prefab)
	if err != nil {
		return err
	}
	if levelName != "" {
		spec.Level = levelName
	}
	if scriptName != "" {
		spec.Script = scriptName
	}
	if spec.Script == "" {
		return fmt.Errorf("no script given")
	}
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", dt)
	}

	logCfg := spec.Log
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	if trace {
		logCfg = logger.DevelopmentConfig()
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	kind, err := sim.ParseWorldKind(world)
	if err != nil {
		return err
	}
	session, err := sim.New(spec, kind, log)
	if err != nil {
		return err
	}
	rt, err := script.Load(spec.Script, log.Named("script"))
	if err != nil {
		return err
	}

	summary, err := session.Play(rt, dt, frames)
	if err != nil {
		return err
	}
	log.Debug("done", zap.String("script", rt.Name()), zap.String("level", spec.Level))
	fmt.Println(summary)
	return nil
}
