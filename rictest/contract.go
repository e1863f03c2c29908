// Package rictest provides a contract test suite for ric engines.
package rictest

// AllContracts returns all test cases for the contract test suite.
func AllContracts() []TestCase {
	const initialCapacity = 16

	contracts := make([]TestCase, 0, initialCapacity)

	contracts = append(contracts, coreContracts()...)
	contracts = append(contracts, lifecycleContracts()...)
	contracts = append(contracts, execContracts()...)
	contracts = append(contracts, errorContracts()...)

	return contracts
}
