package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/gradcheck"
	"github.com/born-ml/autograd/internal/tensor"
)

// checkCase is one entry of the operation catalogue.
type checkCase struct {
	name   string
	shapes []tensor.Shape
	fn     gradcheck.Func
}

func catalogue() []checkCase {
	return []checkCase{
		{"Add", []tensor.Shape{{2, 3}, {3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Add(x[1]).Tanh().Sum() }},
		{"Sub", []tensor.Shape{{2, 1}, {1, 3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Sub(x[1]).Pow(2).Sum() }},
		{"Mul", []tensor.Shape{{3}, {3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Mul(x[1]).Sum() }},
		{"Div", []tensor.Shape{{3}, {3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Div(x[1].Exp()).Sum() }},
		{"Neg", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Neg().Mul(x[0]).Sum() }},
		{"MulScalar", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].MulScalar(-2.5).Tanh().Sum() }},
		{"AddScalar", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].AddScalar(0.5).Pow(2).Sum() }},
		{"Pow", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Exp().Pow(1.5).Sum() }},
		{"Exp", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Exp().Sum() }},
		{"Log", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Exp().AddScalar(1).Log().Sum() }},
		{"Sigmoid", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Sigmoid().Mul(x[0]).Sum() }},
		{"Tanh", []tensor.Shape{{3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Tanh().Pow(2).Sum() }},
		{"ReLU", []tensor.Shape{{4}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].ReLU().Pow(2).Sum() }},
		{"MatMul", []tensor.Shape{{2, 3}, {3, 2}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].MatMul(x[1]).Tanh().Sum() }},
		{"Transpose", []tensor.Shape{{2, 3}, {3, 2}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Transpose().Mul(x[1]).Sum() }},
		{"Reshape", []tensor.Shape{{2, 3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Reshape(3, 2).SumDim(1, false).Pow(2).Sum() }},
		{"Mean", []tensor.Shape{{2, 2}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Pow(2).Mean() }},
		{"SumDim", []tensor.Shape{{2, 3}}, func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].SumDim(0, true).Pow(2).Sum() }},
		{"Chunk", []tensor.Shape{{2, 4}}, func(x []*autodiff.Tensor) *autodiff.Tensor {
			parts := x[0].Chunk(2, 1)
			return parts[0].Mul(parts[1]).Sum()
		}},
		{"BCEWithLogits", []tensor.Shape{{2, 2}, {2, 2}}, func(x []*autodiff.Tensor) *autodiff.Tensor {
			return autodiff.BinaryCrossEntropyWithLogits(x[0], x[1].Sigmoid())
		}},
	}
}

type gradcheckOptions struct {
	only   []string
	seed   uint64
	config gradcheck.Config
}

func newGradcheckCmd() *cobra.Command {
	opts := gradcheckOptions{config: gradcheck.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "gradcheck",
		Short: "Compare every operation's gradient with finite differences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGradcheck(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.only, "op", nil, "check only these operations")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 7, "random seed for the inputs")
	cmd.Flags().Float64Var(&opts.config.Epsilon, "eps", opts.config.Epsilon, "finite difference step")
	cmd.Flags().Float64Var(&opts.config.AbsTol, "atol", opts.config.AbsTol, "absolute tolerance")
	cmd.Flags().Float64Var(&opts.config.RelTol, "rtol", opts.config.RelTol, "relative tolerance")
	return cmd
}

func runGradcheck(out io.Writer, opts gradcheckOptions) error {
	selected := make(map[string]bool, len(opts.only))
	for _, name := range opts.only {
		selected[strings.ToLower(name)] = true
	}

	engine := autodiff.New(cpu.New(), autodiff.WithName("gradcheck"))
	rng := newRand(opts.seed)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"OP", "INPUT", "SHAPE", "MAX ABS ERR", "MAX REL ERR", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	var failed []string
	checked := 0
	for _, c := range catalogue() {
		if len(selected) > 0 && !selected[strings.ToLower(c.name)] {
			continue
		}
		checked++

		inputs := make([]*autodiff.Tensor, len(c.shapes))
		for i, shape := range c.shapes {
			inputs[i] = engine.Randn(shape, tensor.Float64, rng, true)
		}
		report, err := gradcheck.Check(engine, c.fn, inputs, opts.config)
		if err != nil {
			return errors.Wrapf(err, "gradcheck %s", c.name)
		}
		for _, r := range report.Inputs {
			status := "ok"
			if !r.OK {
				status = "FAIL"
			}
			table.Append([]string{
				c.name,
				fmt.Sprint(r.Index),
				fmt.Sprint(c.shapes[r.Index]),
				fmt.Sprintf("%.2e", r.MaxAbsErr),
				fmt.Sprintf("%.2e", r.MaxRelErr),
				status,
			})
		}
		if !report.OK() {
			failed = append(failed, c.name)
		}
	}
	if checked == 0 {
		return errors.Errorf("no operation matches %v", opts.only)
	}

	table.Render()
	if len(failed) > 0 {
		return errors.Errorf("gradient check failed for %s", strings.Join(failed, ", "))
	}
	fmt.Fprintf(out, "%d operations passed\n", checked)
	return nil
}
