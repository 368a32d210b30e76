package schematic_test

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/schematic/pkg/render"
	"github.com/matzehuels/schematic/pkg/schematic"
)

func Example() {
	s := schematic.New()
	for _, line := range []string{
		"P1 1 0.1",
		"R1 3 1; right",
		"L1 2 3; right",
		"C1 3 0; down",
		"P2 2 0.2",
	} {
		if err := s.Add(line); err != nil {
			fmt.Println(err)
			return
		}
	}

	err := s.Draw(context.Background(), os.Stdout, schematic.DrawOptions{
		Options: render.Options{DrawNodes: true, LabelNodes: true, Args: "scale=0.8"},
	})
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// \begin{tikzpicture}[scale=0.8]
	//     \coordinate (1) at (0.0, 2.0);
	//     \coordinate (0_1) at (0.0, 0.0);
	//     \coordinate (3) at (2.0, 2.0);
	//     \coordinate (2) at (4.0, 2.0);
	//     \coordinate (0) at (2.0, 4.0);
	//     \coordinate (0_2) at (4.0, 0.0);
	//     \draw (0_1) to [open] (1);
	//     \draw (1) to [R=$R_{1}$, o-*] (3);
	//     \draw (3) to [L=$L_{1}$, *-o] (2);
	//     \draw (0) to [C=$C_{1}$, *-*] (3);
	//     \draw (0_2) to [open] (2);
	//     \draw (0) to [short, *-o] (0_1);
	//     \draw (0_2) to [short, o-*] (0);
	//     \draw {[anchor=south east] (1) node {1}};
	//     \draw {[anchor=south east] (3) node {3}};
	//     \draw {[anchor=south east] (2) node {2}};
	//     \draw {[anchor=south east] (0) node {0}};
	// \end{tikzpicture}
}

func ExampleSchematic_Netlist() {
	s := schematic.New()
	_ = s.Add("V1 1 0 V_s; up")
	_ = s.Add("R1 1 2; right, size=1.5")
	_ = s.Add("C1 2 0.1; down, i=I_C")
	fmt.Println(s.Netlist())
	// Output:
	// V1 1 0 V_s
	// R1 1 2; right, size=1.5
	// C1 2 0_1; down, i=I_C
}
