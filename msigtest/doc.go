/*
Package msigtest provides mocks and helpers shared by the tests of this
repository. It must never be imported by production code.
*/
package msigtest
