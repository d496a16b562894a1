package calculator_test

import (
	"fmt"

	"github.com/katalvlaran/lvatoms/calculator"
	"github.com/katalvlaran/lvatoms/systems"
)

// ExampleCalculator_Compute computes the SOAP power spectrum of a water
// molecule and lists the blocks of the result.
func ExampleCalculator_Compute() {
	calc, err := calculator.New("soap_power_spectrum", `{
		"cutoff": 3.5,
		"max_radial": 4,
		"max_angular": 2,
		"atomic_gaussian_width": 0.3,
		"center_atom_weight": 1.0,
		"radial_basis": {"Gto": {}},
		"cutoff_function": {"ShiftedCosine": {"width": 0.5}}
	}`)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	water, err := systems.Fixture("water")
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	out, err := calc.Compute([]systems.System{water}, calculator.Options{
		Gradients: []string{calculator.GradientPositions},
	})
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	fmt.Println(calc.Name())
	for b, key := range out.Keys().Iter() {
		block := out.Block(b)
		grad, _ := block.Gradient(calculator.GradientPositions)
		fmt.Printf("%v samples=%d properties=%d gradient rows=%d\n",
			key, block.Samples().Count(), block.Properties().Count(), grad.Samples().Count())
	}
	// Output:
	// SOAP power spectrum
	// [1 1 1] samples=2 properties=48 gradient rows=4
	// [1 1 8] samples=2 properties=48 gradient rows=6
	// [1 8 8] samples=2 properties=48 gradient rows=4
	// [8 1 1] samples=1 properties=48 gradient rows=3
	// [8 1 8] samples=1 properties=48 gradient rows=3
	// [8 8 8] samples=1 properties=48 gradient rows=1
}

// ExampleParseParameters converts YAML hyperparameters to the JSON accepted
// by New.
func ExampleParseParameters() {
	parameters, err := calculator.ParseParameters(calculator.FormatYAML, []byte(`
cutoff: 3.0
delta: 4
name: chain
`))
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	calc, err := calculator.New("dummy_calculator", parameters)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	fmt.Println(parameters)
	fmt.Println(calc.Name())
	// Output:
	// {"cutoff":3,"delta":4,"name":"chain"}
	// dummy test calculator with cutoff: 3 - delta: 4 - name: chain
}
