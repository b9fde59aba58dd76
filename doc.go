// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package staffreview-sheets stores staff performance reviews in a Google Sheets spreadsheet.

Access to the spreadsheet is gated on an OAuth2 session: any read, append or write made while
signed out first runs the interactive Google sign-in and only reaches the Sheets API once a
credential has been acquired. The session state is observable, so the web form and the CLI
both follow sign-in and sign-out as they happen.

staffreview-sheets supports the following commands:

  - authorise, to sign in and optionally print the refresh token for unattended use
  - revoke, to revoke the configured credential
  - get, to download a Google Sheets range as a TSV file
  - put, to store a TSV file to a Google Sheets range
  - append, to append rows to a Google Sheets table
  - headers, to write the review header row to the worksheet
  - submit, to submit a review from a TOML record file
  - list, to list the reviews stored in the worksheet
  - serve, to run the multi-step review form as a local web application
*/
package sheets
