// Package plot renders the side-by-side comparison chart of the simulated
// scenarios as a PNG image. Each panel shows the S, I and R curves of one
// disease with its estimated deaths dashed.
package plot
