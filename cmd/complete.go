package cmd

import (
	"flag"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of pcd: the global flags, and the
// subcommands with their own flags.
//
// A main package calls Completion().Complete("pcd") before parsing the
// flags: it answers the shell completion requests and exits, and does nothing
// otherwise.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, e := range commands {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		switch c := e.cmd.(type) {
		case *recordsCmd:
			sub.Flags["add"] = assignmentPredictor(dashboard.NewRecordForm(c.kind, nil))
		case *settingsCmd:
			sub.Flags["add-instrument"] = assignmentPredictor(dashboard.NewInstrumentForm(nil, nil))
		}
		root.Sub[e.cmd.Name()] = sub
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}

	if topics, err := docs.Names(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	return root
}

// flagPredictors predicts the values of the flags in fs. Boolean flags take no value.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		res[f.Name] = predict.Something
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[f.Name] = predict.Nothing
		}
	})
	if _, ok := res["log-level"]; ok {
		res["log-level"] = predict.Set{"debug", "info", "warn", "error"}
	}
	return res
}

// assignmentPredictor predicts the "field=" prefixes of f.
func assignmentPredictor(f *dashboard.Form) predict.Set {
	var res predict.Set
	for _, fd := range f.Fields() {
		res = append(res, fd.Name+"=")
	}
	return res
}
