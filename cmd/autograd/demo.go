package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/tensor"
)

type demoOptions struct {
	dtype   string
	seed    uint64
	retain  bool
	workers int
	lr      float64
}

func newDemoCmd() *cobra.Command {
	var opts demoOptions
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Differentiate a logistic model through binary cross-entropy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.dtype, "dtype", "float64", "parameter dtype (float16, float32, float64)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 42, "random seed")
	cmd.Flags().BoolVar(&opts.retain, "retain", false, "retain the graph and run backward twice")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "independent graphs differentiated concurrently")
	cmd.Flags().Float64Var(&opts.lr, "lr", 0.1, "learning rate of the SGD step applied after backward")
	return cmd
}

// model is the logistic model of the demo: logits = x @ w + b.
type model struct {
	x, y   *autodiff.Tensor
	params *nn.ParameterSet
}

func newModel(engine *autodiff.Engine, dtype tensor.DataType, seed uint64) (*model, error) {
	rng := newRand(seed)

	w, err := nn.NewParameter("w", engine.Randn(tensor.Shape{5, 3}, dtype, rng, false))
	if err != nil {
		return nil, err
	}
	b, err := nn.NewParameter("b", engine.Zeros(tensor.Shape{3}, dtype, false))
	if err != nil {
		return nil, err
	}
	params, err := nn.NewParameterSet(w, b)
	if err != nil {
		return nil, err
	}
	return &model{
		x:      engine.Randn(tensor.Shape{4, 5}, dtype, rng, false),
		y:      engine.NewTensor(tensor.Rand(tensor.Shape{4, 3}, dtype, tensor.CPU, rng), false),
		params: params,
	}, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (m *model) loss() *autodiff.Tensor {
	w, _ := m.params.Get("w")
	b, _ := m.params.Get("b")
	logits := m.x.MatMul(w.Tensor()).Add(b.Tensor())
	return autodiff.BinaryCrossEntropyWithLogits(logits, m.y)
}

func runDemo(out io.Writer, opts demoOptions) error {
	dtype, err := tensor.ParseDataType(opts.dtype)
	if err != nil {
		return err
	}
	if !dtype.IsFloat() {
		return errors.Errorf("demo needs a floating point dtype, got %s", dtype)
	}
	if opts.workers < 1 {
		return errors.Errorf("--workers must be at least 1, got %d", opts.workers)
	}

	engine := autodiff.New(cpu.New(), autodiff.WithName("demo"))
	m, err := newModel(engine, dtype, opts.seed)
	if err != nil {
		return err
	}

	loss := m.loss()
	stats, err := engine.Stats(loss)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "loss: %.6f (%s)\n", loss.Item(), stats)

	var backwardOpts []autodiff.BackwardOption
	if opts.retain {
		backwardOpts = append(backwardOpts, autodiff.RetainGraph())
	}
	if err := loss.Backward(backwardOpts...); err != nil {
		return err
	}
	printGrads(out, m.params)

	err = loss.Backward(backwardOpts...)
	switch {
	case err == nil:
		fmt.Fprintln(out, "second backward accumulated:")
		printGrads(out, m.params)
	case errors.Is(err, autodiff.ErrGraphAlreadyFreed):
		fmt.Fprintf(out, "second backward: %v\n", err)
	default:
		return err
	}

	if opts.workers > 1 {
		if err := runWorkers(out, m, opts.workers); err != nil {
			return err
		}
	}

	m.params.ZeroGrad()
	if err := m.loss().Backward(); err != nil {
		return err
	}
	if err := optim.NewSGD(m.params, optim.SGDConfig{LR: opts.lr}).Step(); err != nil {
		return err
	}
	engine.WithNoGrad(func() {
		fmt.Fprintf(out, "loss after one SGD step: %.6f\n", m.loss().Item())
	})
	return nil
}

// runWorkers differentiates independent graphs over the shared parameters
// concurrently. The parameter gradients end up as the sum over workers.
func runWorkers(out io.Writer, m *model, workers int) error {
	m.params.ZeroGrad()
	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			return m.loss().Backward()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d concurrent graphs accumulated:\n", workers)
	printGrads(out, m.params)
	return nil
}

func printGrads(out io.Writer, params *nn.ParameterSet) {
	grads := params.Grads()
	for _, p := range params.All() {
		g, ok := grads[p.Name()]
		if !ok {
			fmt.Fprintf(out, "  %s: no gradient\n", p.Name())
			continue
		}
		fmt.Fprintf(out, "  grad %s %v: %.4f\n", p.Name(), g.Shape(), g.Float64s())
	}
}
