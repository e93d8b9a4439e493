// Package information computes exact Shannon information (negative natural
// log-probability) of run-length statistics of a sign sequence under the null
// model of independent, equiprobable signs.
//
// All combinatorial quantities are evaluated as sums of logarithms, so the
// statistics stay finite for sequences of many thousands of signs. The only
// quantity that needs more than float64 precision, the Gauss hypergeometric
// normalizer of the positive-sign term, is summed in decimal arithmetic with
// more than one hundred significant digits.
package information
