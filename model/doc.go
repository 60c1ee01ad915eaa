// Package model defines the fixed-size value types and the closed error
// taxonomy shared by the verification core.
//
// Every type here is an immutable value passed by copy. The package has no
// dependencies so that attestation, data and merkle can all import it
// without cycles, and so that the taxonomy stays identical across native
// and zkVM builds.
package model
