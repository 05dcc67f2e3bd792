//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package nb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/e-gun/TextClusterLab/internal/vv"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	ErrNoRunner = errors.New("notebook has nothing to execute")

	// now - the runner's clock
	now = time.Now
)

const (
	STATUSOK   = "completed"
	STATUSFAIL = "failed"
)

// Param - one injected notebook parameter; a slice of these keeps the order they were declared in
type Param struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Cell - one recorded step of an executed notebook
type Cell struct {
	Name    string `json:"name"`
	Output  string `json:"output"`
	Elapsed string `json:"elapsed"`
}

// Execution - the executed notebook: what ran, with which parameters, and what each step printed
type Execution struct {
	Notebook string    `json:"notebook"`
	Input    string    `json:"input_path"`
	Output   string    `json:"output_path"`
	Params   []Param   `json:"parameters"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
	Cells    []Cell    `json:"cells"`
	last     time.Time
}

// AddCell - record a step; its elapsed time runs from the previous cell
func (ex *Execution) AddCell(name string, output string) {
	t := now()
	ex.Cells = append(ex.Cells, Cell{Name: name, Output: output, Elapsed: fmt.Sprintf("%.3fs", t.Sub(ex.last).Seconds())})
	ex.last = t
}

// Sibling - a path next to the output record: "02_eda-20260301-120000" + suffix
func (ex *Execution) Sibling(suffix string) string {
	return strings.TrimSuffix(ex.Output, ".json") + suffix
}

// Notebook - a named, parameterised stage
type Notebook struct {
	Name   string
	Params []Param
	Run    func(ctx context.Context, ex *Execution) error
}

// OutputName - "01_get_data.ipynb" at t --> "01_get_data-20260301-120000.json"
func OutputName(name string, t time.Time) string {
	return strings.TrimSuffix(name, ".ipynb") + "-" + t.Format(vv.NBTIMEFMT) + ".json"
}

// RunNotebooks - execute each notebook in turn; every execution leaves a timestamped record in outdir, failed ones included
func RunNotebooks(ctx context.Context, list []Notebook, outdir string) ([]*Execution, error) {
	const (
		MSG1 = "Input notebook path: %s"
		MSG2 = "Output notebook path: %s"
		MSG3 = "%s: %v"
		MSG4 = "RunNotebooks() %s finished in %.3fs"
		FAIL = "RunNotebooks() %s failed: %s"
	)

	if err := os.MkdirAll(outdir, vv.DIRPERMS); err != nil {
		return nil, err
	}

	var done []*Execution
	for _, n := range list {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		started := now()
		ex := &Execution{
			Notebook: n.Name,
			Input:    n.Name,
			Output:   filepath.Join(outdir, OutputName(n.Name, started)),
			Params:   n.Params,
			Started:  started,
			last:     started,
		}

		Msg.MAND(fmt.Sprintf(MSG1, ex.Input))
		Msg.MAND(fmt.Sprintf(MSG2, ex.Output))
		for _, p := range n.Params {
			Msg.MAND(fmt.Sprintf(MSG3, p.Key, p.Value))
		}

		var runerr error
		if n.Run == nil {
			runerr = ErrNoRunner
		} else {
			runerr = n.Run(ctx, ex)
		}

		ex.Finished = now()
		ex.Status = STATUSOK
		if runerr != nil {
			ex.Status = STATUSFAIL
			ex.Error = runerr.Error()
		}

		if err := writeexecution(ex); err != nil {
			return done, err
		}
		done = append(done, ex)

		if runerr != nil {
			Msg.CRIT(fmt.Sprintf(FAIL, n.Name, runerr.Error()))
			return done, fmt.Errorf("%s: %w", n.Name, runerr)
		}
		Msg.NOTE(fmt.Sprintf(MSG4, n.Name, ex.Finished.Sub(ex.Started).Seconds()))
	}
	return done, nil
}

func writeexecution(ex *Execution) error {
	js, err := json.MarshalIndent(ex, "", vv.JSONINDENT)
	if err != nil {
		return err
	}
	return os.WriteFile(ex.Output, js, vv.WRITEPERMS)
}

// ReadExecution - load an executed notebook record
func ReadExecution(path string) (*Execution, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ex Execution
	if err = json.Unmarshal(b, &ex); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ex, nil
}
