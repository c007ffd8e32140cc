// Package main provides the entry point for the ftpbrute CLI.
//
// ftpbrute checks a single FTP server for anonymous access and then tries
// candidate passwords for one username, one connection at a time, stopping
// at the first password the server accepts.
//
// Usage:
//
//	ftpbrute scan --host ftp.example.com -u admin -w passwords.txt
//	ftpbrute history ftp.example.com
//
// See --help for all available options.
package main

func main() {
	Execute()
}
